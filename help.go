package main

import (
	"strings"
)

const helpEN = `codestop - key bindings

  Enter        New line, unless the code stopper rejects the current line
  Alt-Enter    New line without checking (also Shift-Enter where the terminal reports it)
  Ctrl-K       Toggle the code stopper on and off

  Ctrl-S  Save file            Ctrl-O  Open file
  Ctrl-N  New tab              Ctrl-B  Next tab
  Ctrl-W  Close tab            Ctrl-Q  Quit (twice with unsaved tabs)
  Ctrl-Z  Undo                 Ctrl-Y  Redo
  Ctrl-C  Copy line            Ctrl-X  Cut line
  Ctrl-V  Paste                Tab     Indent with four spaces

  Ctrl-R  Run the tab on Judge0, output goes to the console
  Ctrl-E  Ask the assistant to explain the last rejected line
  Ctrl-T  Ask the assistant a question about the current tab
  Ctrl-G  Insert an assistant completion at the cursor
  Ctrl-L  Clear the console

  Any key closes this help.`

const helpRU = `codestop - горячие клавиши

  Enter        Новая строка, если code stopper не отклонил текущую
  Alt-Enter    Новая строка без проверки (и Shift-Enter, если терминал его передаёт)
  Ctrl-K       Включить или выключить code stopper

  Ctrl-S  Сохранить файл       Ctrl-O  Открыть файл
  Ctrl-N  Новая вкладка        Ctrl-B  Следующая вкладка
  Ctrl-W  Закрыть вкладку      Ctrl-Q  Выход (дважды при несохранённых вкладках)
  Ctrl-Z  Отменить             Ctrl-Y  Вернуть отменённое
  Ctrl-C  Копировать строку    Ctrl-X  Вырезать строку
  Ctrl-V  Вставить             Tab     Отступ в четыре пробела

  Ctrl-R  Запустить вкладку в Judge0, вывод попадает в консоль
  Ctrl-E  Объяснить последнюю отклонённую строку
  Ctrl-T  Задать вопрос ассистенту о текущей вкладке
  Ctrl-G  Вставить подсказку ассистента в позицию курсора
  Ctrl-L  Очистить консоль

  Любая клавиша закрывает справку.`

// detectSystemLanguage picks the help language from the locale variables.
func detectSystemLanguage(getenv func(string) string) string {
	for _, key := range []string{"LANG", "LC_ALL", "LC_MESSAGES", "LANGUAGE"} {
		v := strings.ToLower(getenv(key))
		if v == "" {
			continue
		}
		if dot := strings.IndexByte(v, '.'); dot != -1 {
			v = v[:dot]
		}
		if strings.HasPrefix(v, "ru") {
			return "ru"
		}
		if strings.HasPrefix(v, "en") {
			return "en"
		}
	}
	return "en"
}

// helpText returns the key binding help for lang.
func helpText(lang string) string {
	if lang == "ru" {
		return helpRU
	}
	return helpEN
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codestop/stopper"
)

const assistantTimeout = 60 * time.Second

// runActive sends the active tab to Judge0. The result is posted back to the
// UI loop and lands in the console.
func (e *Editor) runActive() {
	tab := e.tabs.Active()
	if tab == nil {
		return
	}
	if e.runner == nil {
		e.statusMessage("Remote execution is not configured (set JUDGE0_API_KEY)")
		return
	}
	if e.running {
		e.statusMessage("A run is already in progress")
		return
	}
	lang := stopper.LangUnknown
	if tab.Language != nil {
		lang = tab.Language.Stopper
	}
	code := tab.Content()

	e.running = true
	e.console.Add(OutputInfo, fmt.Sprintf("Running %s...", tab.Name))
	e.logger.Info("run started", "tab", tab.Name, "language", lang.String())
	go func() {
		res, err := e.runner.Run(e.ctx, code, lang, "")
		e.post(func() {
			e.running = false
			e.showRunResult(lang, res, err)
		})
	}()
}

func (e *Editor) showRunResult(lang stopper.Language, res SubmissionResult, err error) {
	if err != nil {
		status := "error"
		switch {
		case errors.Is(err, ErrExecutionTimeout):
			status = "timeout"
		case errors.Is(err, ErrUnsupportedLanguage):
			status = "unsupported"
		case errors.Is(err, context.Canceled):
			return
		}
		e.metrics.ObserveRun(lang, status)
		e.console.Add(OutputStderr, "Execution failed: "+err.Error())
		e.logger.Error("run failed", "language", lang.String(), "error", err)
		return
	}
	e.metrics.ObserveRun(lang, strings.ToLower(res.Status.Description))

	if res.CompileOutput != "" {
		e.console.Add(OutputWarning, res.CompileOutput)
	}
	if res.Stdout != "" {
		e.console.Add(OutputStdout, res.Stdout)
	}
	if res.Stderr != "" {
		e.console.Add(OutputStderr, res.Stderr)
	}
	if res.Message != "" {
		e.console.Add(OutputInfo, res.Message)
	}
	summary := fmt.Sprintf("%s (time %ss, memory %d KB)", res.Status.Description, res.Time, res.Memory)
	if res.Status.ID == judge0StatusAccepted {
		e.console.Add(OutputSuccess, summary)
	} else {
		e.console.Add(OutputStderr, summary)
	}
}

// explainLast asks the assistant about the most recent rejection.
func (e *Editor) explainLast() {
	if e.lastRejection == nil {
		e.statusMessage("No rejected line to explain")
		return
	}
	e.explainRejection(*e.lastRejection)
}

func (e *Editor) explainRejection(r stopper.Rejection) {
	if e.assistant == nil {
		e.statusMessage(ErrNoAPIKey.Error())
		return
	}
	e.statusMessage("Asking the assistant about line " + fmt.Sprint(r.LineNumber) + "...")
	go func() {
		ctx, cancel := context.WithTimeout(e.ctx, assistantTimeout)
		defer cancel()
		text, err := e.assistant.ExplainRejection(ctx, r)
		e.post(func() {
			if err != nil {
				e.console.Add(OutputStderr, "Explain failed: "+err.Error())
				return
			}
			e.console.Add(OutputInfo, fmt.Sprintf("Line %d: %s\n%s", r.LineNumber, r.Verdict.Message, text))
		})
	}()
}

// askAssistant sends a chat question with the active tab as context.
func (e *Editor) askAssistant(question string) {
	if question == "" {
		return
	}
	if e.assistant == nil {
		e.statusMessage(ErrNoAPIKey.Error())
		return
	}
	code := ""
	if tab := e.tabs.Active(); tab != nil {
		code = tab.Content()
	}
	history := append([]ChatMessage(nil), e.chat...)
	e.chat = append(e.chat, newChatMessage(openai.ChatMessageRoleUser, question))
	e.console.Add(OutputInfo, "> "+question)
	go func() {
		ctx, cancel := context.WithTimeout(e.ctx, assistantTimeout)
		defer cancel()
		answer, err := e.assistant.Ask(ctx, history, question, code)
		e.post(func() {
			if err != nil {
				e.console.Add(OutputStderr, "Assistant error: "+err.Error())
				return
			}
			e.chat = append(e.chat, newChatMessage(openai.ChatMessageRoleAssistant, answer))
			e.console.Add(OutputStdout, answer)
		})
	}()
}

// completeAtCursor inserts a short model suggestion at the cursor of the tab
// that was active when it was requested.
func (e *Editor) completeAtCursor() {
	tab := e.tabs.Active()
	if tab == nil {
		return
	}
	if e.assistant == nil {
		e.statusMessage(ErrNoAPIKey.Error())
		return
	}
	tab.clampCursor()
	before := append([]string(nil), tab.Lines[:tab.cy]...)
	before = append(before, string([]rune(tab.currentLine())[:tab.cx]))
	code := strings.Join(before, "\n")
	lang := "text"
	if tab.Language != nil {
		lang = tab.Language.Name
	}
	cy, cx := tab.cy, tab.cx
	e.statusMessage("Requesting completion...")
	go func() {
		ctx, cancel := context.WithTimeout(e.ctx, assistantTimeout)
		defer cancel()
		text, err := e.assistant.Complete(ctx, code, lang)
		e.post(func() {
			if err != nil {
				e.statusMessage("Completion failed: " + err.Error())
				return
			}
			if !e.applyCompletion(tab, cy, cx, text) {
				e.statusMessage("No completion")
				return
			}
			e.statusMessage("Completion inserted")
		})
	}()
}

// applyCompletion inserts text only while tab is still the active tab and its
// cursor is where the completion was requested.
// applyCompletion вставляет подсказку, только если вкладка активна и курсор не сдвинулся.
func (e *Editor) applyCompletion(tab *Tab, cy, cx int, text string) bool {
	if text == "" || e.tabs.Active() != tab || tab.cy != cy || tab.cx != cx {
		return false
	}
	tab.insertText(text)
	e.stopper.Edit()
	return true
}

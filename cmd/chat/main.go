package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/config"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/ai"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/chatclient"
	"gitlab.com/home-server7795544/home-server/gateway/framework-guide/internal/framework"
	"go.uber.org/zap"
)

const greeting = "Hi! Ask me anything about the framework."

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}
	content, err := framework.Load()
	if err != nil {
		log.Fatal(err)
	}

	// stdout belongs to the UI
	session := chatclient.NewSession(cfg.Client.ProxyURL, content.SystemContext(), cfg.Client.Timeout, zap.NewNop())

	app := tview.NewApplication()
	history := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	history.SetTitle("Framework Guide").SetBorder(true)

	status := tview.NewTextView().SetDynamicColors(true)

	input := tview.NewInputField().SetLabel("> ")
	input.SetBorder(true)

	render := func() {
		history.SetText(renderHistory(session.Messages()))
		history.ScrollToEnd()
	}
	session.OnUpdate(func() { app.QueueUpdateDraw(render) })

	input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := input.GetText()
		if strings.TrimSpace(text) == "" || session.Busy() {
			return
		}
		input.SetText("")
		status.SetText("[yellow]Thinking...")

		go func() {
			_, err := session.Send(context.Background(), text)
			app.QueueUpdateDraw(func() {
				if err != nil {
					status.SetText(fmt.Sprintf("[red]Error: %s", tview.Escape(err.Error())))
					return
				}
				status.SetText("")
			})
		}()
	})

	history.SetText("[::i]" + greeting)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(history, 0, 1, false).
		AddItem(status, 1, 0, false).
		AddItem(input, 3, 0, true)

	if err := app.SetRoot(layout, true).SetFocus(input).Run(); err != nil {
		log.Fatal(err)
	}
}

func renderHistory(msgs []ai.ChatMessage) string {
	var b strings.Builder
	b.WriteString("[::i]" + greeting + "[::-]\n")
	for _, m := range msgs {
		switch m.Role {
		case ai.RoleUser:
			b.WriteString("\n[blue::b]You:[-::-] ")
		default:
			b.WriteString("\n[green::b]Guide:[-::-] ")
		}
		b.WriteString(tview.Escape(m.Content))
		b.WriteString("\n")
	}
	return b.String()
}

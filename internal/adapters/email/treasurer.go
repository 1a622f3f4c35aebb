package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"

	"boetepot/internal/domain/money"
)

// FinesRecorded describes a fine batch for the treasurer.
type FinesRecorded struct {
	Players []string
	Reason  string
	Amount  money.Cents // per player
	Date    time.Time
	Notes   string
	Actor   string
}

// Total is the batch total.
func (f FinesRecorded) Total() money.Cents {
	return f.Amount * money.Cents(len(f.Players))
}

// PotEmptied describes a delete-all for the treasurer.
type PotEmptied struct {
	Removed int64
	Total   money.Cents // pot total just before deletion
	Actor   string
	At      time.Time
}

// Treasurer formats and sends treasurer notifications.
type Treasurer struct {
	sender Sender
	to     []string
}

// NewTreasurer returns a Treasurer mailing to, or nil when to is empty.
func NewTreasurer(sender Sender, to []string) *Treasurer {
	var clean []string
	for _, addr := range to {
		if a := strings.TrimSpace(addr); a != "" {
			clean = append(clean, a)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return &Treasurer{sender: sender, to: clean}
}

var funcs = map[string]any{
	"euro": func(c money.Cents) string { return c.Format() },
	"day":  func(t time.Time) string { return t.Format("02-01-2006") },
}

var recordedHTML = htmltemplate.Must(htmltemplate.New("recorded").Funcs(funcs).Parse(
	`<p>{{.Actor}} heeft {{len .Players}} boete(s) toegevoegd op {{day .Date}}.</p>
<p><strong>{{.Reason}}</strong>: {{euro .Amount}} per speler, totaal {{euro .Total}}.</p>
<ul>{{range .Players}}<li>{{.}}</li>{{end}}</ul>
{{if .Notes}}<p>Notitie: {{.Notes}}</p>{{end}}`))

var recordedText = texttemplate.Must(texttemplate.New("recorded").Funcs(funcs).Parse(
	`{{.Actor}} heeft {{len .Players}} boete(s) toegevoegd op {{day .Date}}.
{{.Reason}}: {{euro .Amount}} per speler, totaal {{euro .Total}}.
{{range .Players}}- {{.}}
{{end}}{{if .Notes}}Notitie: {{.Notes}}
{{end}}`))

var emptiedHTML = htmltemplate.Must(htmltemplate.New("emptied").Funcs(funcs).Parse(
	`<p>{{.Actor}} heeft alle {{.Removed}} boetes verwijderd.</p>
<p>De pot stond op {{euro .Total}} en is nu leeg.</p>`))

var emptiedText = texttemplate.Must(texttemplate.New("emptied").Funcs(funcs).Parse(
	`{{.Actor}} heeft alle {{.Removed}} boetes verwijderd.
De pot stond op {{euro .Total}} en is nu leeg.
`))

// NotifyFinesRecorded mails the treasurer about a new batch.
func (t *Treasurer) NotifyFinesRecorded(ctx context.Context, n FinesRecorded) error {
	subject := fmt.Sprintf("BoetePot: %d nieuwe boete(s), %s", len(n.Players), n.Total().Format())
	return t.send(ctx, subject, "fines_recorded", recordedHTML, recordedText, n)
}

// NotifyPotEmptied mails the treasurer after every fine was deleted.
func (t *Treasurer) NotifyPotEmptied(ctx context.Context, n PotEmptied) error {
	return t.send(ctx, "BoetePot: alle boetes verwijderd", "pot_emptied", emptiedHTML, emptiedText, n)
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func (t *Treasurer) send(ctx context.Context, subject, tag string, html, text executor, data any) error {
	var h, p bytes.Buffer
	if err := html.Execute(&h, data); err != nil {
		return fmt.Errorf("render %s html: %w", tag, err)
	}
	if err := text.Execute(&p, data); err != nil {
		return fmt.Errorf("render %s text: %w", tag, err)
	}
	_, err := t.sender.Send(ctx, SendRequest{
		To:      t.to,
		Subject: subject,
		HTML:    h.String(),
		Text:    p.String(),
		Tag:     tag,
	})
	return err
}

package mail_test

import (
	"context"
	"html/template"
	"testing"

	"github.com/shashiranjanraj/brewandco/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct{ sent []*mail.Message }

func (o *outbox) Send(_ context.Context, m *mail.Message) error {
	o.sent = append(o.sent, m)
	return nil
}

func useOutbox(t *testing.T) *outbox {
	t.Helper()
	box := &outbox{}
	mail.SetSender(box)
	t.Cleanup(func() { mail.SetSender(nil) })
	return box
}

func TestTemplateMessage(t *testing.T) {
	box := useOutbox(t)
	tmpl := template.Must(template.New("receipt").Parse(`<p>Thanks {{.Name}}</p>`))

	err := mail.To("ana@x.com").
		WithSubject("Your order").
		Template(tmpl, map[string]string{"Name": "<Ana>"}).
		Send(context.Background())
	require.NoError(t, err)
	require.Len(t, box.sent, 1)

	m := box.sent[0]
	assert.Equal(t, []string{"ana@x.com"}, m.To)
	assert.True(t, m.HTML)
	assert.Equal(t, "<p>Thanks &lt;Ana&gt;</p>", m.Body)

	raw := string(m.Raw())
	assert.Contains(t, raw, "Subject: Your order\r\n")
	assert.Contains(t, raw, `Content-Type: text/html; charset="UTF-8"`)
}

func TestTextMessage(t *testing.T) {
	box := useOutbox(t)
	require.NoError(t, mail.To("a@x.com", "b@x.com").WithSubject("hi").Text("plain").Send(context.Background()))

	raw := string(box.sent[0].Raw())
	assert.Contains(t, raw, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.Contains(t, raw, "\r\n\r\nplain")
}

func TestSendErrors(t *testing.T) {
	box := useOutbox(t)

	err := mail.To().WithSubject("nobody").Text("x").Send(context.Background())
	assert.Error(t, err)

	broken := template.Must(template.New("broken").Parse(`{{.Missing.Field}}`))
	err = mail.To("a@x.com").Template(broken, struct{ Missing *struct{ Field string } }{}).Send(context.Background())
	assert.ErrorContains(t, err, "render broken")

	assert.Empty(t, box.sent)
}

func TestLogSenderAcceptsEverything(t *testing.T) {
	assert.NoError(t, mail.LogSender{}.Send(context.Background(), mail.To("a@x.com").Text("x")))
}

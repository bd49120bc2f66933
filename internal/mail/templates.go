package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

var (
	verificationHTML = htmltemplate.Must(htmltemplate.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Verify your e-mail</h2>
  <p>Hi {{.Name}},</p>
  <p>Use the code below to verify your account:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>The code expires in {{.Minutes}} minutes.</p>
  <p>If you did not create an account you can ignore this message.</p>
</body>
</html>`))

	verificationText = texttemplate.Must(texttemplate.New("verification").Parse(`Hi {{.Name}},

Your verification code is {{.Code}}.
The code expires in {{.Minutes}} minutes.

If you did not create an account you can ignore this message.
`))

	welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2937;">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your e-mail has been verified. You can now sign in and start writing posts.</p>
</body>
</html>`))

	welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(`Welcome, {{.Name}}!

Your e-mail has been verified. You can now sign in and start writing posts.
`))
)

type verificationData struct {
	Name    string
	Code    string
	Minutes int
}

type welcomeData struct {
	Name string
}

// VerificationMessage renders the one-time code e-mail.
func VerificationMessage(to, name, code string, ttl time.Duration) (Message, error) {
	data := verificationData{Name: name, Code: code, Minutes: int(ttl / time.Minute)}
	html, text, err := render(verificationHTML, verificationText, data)
	if err != nil {
		return Message{}, fmt.Errorf("render verification mail: %w", err)
	}
	return Message{
		Kind:    KindVerification,
		To:      to,
		Subject: "Verify your email address",
		HTML:    html,
		Text:    text,
	}, nil
}

func WelcomeMessage(to, name string) (Message, error) {
	html, text, err := render(welcomeHTML, welcomeText, welcomeData{Name: name})
	if err != nil {
		return Message{}, fmt.Errorf("render welcome mail: %w", err)
	}
	return Message{
		Kind:    KindWelcome,
		To:      to,
		Subject: "Welcome to the blog",
		HTML:    html,
		Text:    text,
	}, nil
}

func render(h *htmltemplate.Template, t *texttemplate.Template, data any) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := h.Execute(&htmlBuf, data); err != nil {
		return "", "", err
	}
	if err := t.Execute(&textBuf, data); err != nil {
		return "", "", err
	}
	return htmlBuf.String(), textBuf.String(), nil
}

package mailer

import (
	"bytes"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

const verificationBody = `Hello {{ .Name | default "there" }},

Welcome to {{ .AppName }}. Use this code to verify your email address:

    {{ .Code }}

The code expires in {{ .TTL }}. If you did not create an account, you
can ignore this message.

{{ .AppName }}
`

const twoFactorBody = `Hello {{ .Name | default "there" }},

Your {{ .AppName }} sign-in code is:

    {{ .Code }}

It expires in {{ .TTL }}. If you did not try to sign in, change your
password now.

{{ .AppName }}
`

var (
	verificationTmpl = template.Must(template.New("verification").Funcs(sprig.FuncMap()).Parse(verificationBody))
	twoFactorTmpl    = template.Must(template.New("two_factor").Funcs(sprig.FuncMap()).Parse(twoFactorBody))
)

type bodyData struct {
	AppName string
	Name    string
	Code    string
	TTL     string
}

func renderBody(tmpl *template.Template, appName, name, code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, bodyData{
		AppName: appName,
		Name:    name,
		Code:    code,
		TTL:     ttl.String(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const layout = `
{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:20px;background-color:#f3f4f6;">
  <div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;border:1px solid #e5e7eb;border-radius:8px;">
    <div style="background-color:#059669;padding:20px;text-align:center;border-radius:8px 8px 0 0;">
      <h1 style="color:#ffffff;margin:0;font-size:24px;">{{.Brand}}</h1>
    </div>
    <div style="padding:30px;background-color:#ffffff;color:#333333;line-height:1.6;">
      <h2 style="color:#059669;margin-top:0;">{{.Title}}</h2>
      {{template "content" .}}
    </div>
    <div style="padding:20px;text-align:center;font-size:12px;color:#666666;background-color:#f9fafb;border-radius:0 0 8px 8px;">
      <p>&copy; {{.Year}} {{.Brand}}. Tous droits réservés.</p>
    </div>
  </div>
</body>
</html>{{end}}
{{define "button"}}<div style="text-align:center;"><a href="{{.URL}}" style="display:inline-block;background-color:#059669;color:#ffffff;padding:12px 24px;text-decoration:none;border-radius:6px;font-weight:bold;margin-top:20px;">{{.Label}}</a></div>{{end}}
{{define "credentials"}}<div style="background-color:#f0fdf4;border:1px solid #bbf7d0;padding:15px;border-radius:6px;margin:20px 0;">
  <p style="margin:5px 0;"><strong>Email :</strong> {{.Email}}</p>
  <p style="margin:5px 0;"><strong>Mot de passe :</strong> <code>{{.Password}}</code></p>
</div>{{end}}
`

var bodies = map[string]string{
	tplReceived: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Nous avons bien reçu votre demande d'inscription.</p>
<p>Votre dossier est <strong>en cours d'examen</strong> par notre équipe. Vous recevrez un email dès qu'une décision sera prise.</p>
{{if .Password}}<p>Un compte membre a été créé pour vous :</p>
{{template "credentials" .}}
{{template "button" .Button}}{{end}}
<p>Merci de votre patience et de votre confiance.</p>
{{end}}`,

	tplWelcome: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Félicitations ! Votre demande d'inscription a été <strong>APPROUVÉE</strong>.</p>
<p>Un compte membre a été créé pour vous. Voici vos identifiants de connexion :</p>
{{template "credentials" .}}
{{template "button" .Button}}
<p style="margin-top:30px;">Bienvenue dans notre communauté !</p>
{{end}}`,

	tplApproved: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Votre demande d'inscription a été <strong>APPROUVÉE</strong>.</p>
<p>Vous possédez déjà un compte : continuez à utiliser vos identifiants habituels.</p>
{{template "button" .Button}}
{{end}}`,

	tplRejected: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Nous vous remercions pour l'intérêt que vous portez à <strong>{{.Brand}}</strong>.</p>
<p>Après étude de votre dossier, nous avons le regret de vous informer que votre demande n'a pas été retenue pour le moment.</p>
{{end}}`,

	tplEventRegistered: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Vous êtes bien inscrit à l'événement :</p>
<h3 style="color:#111827;">{{.EventTitle}}</h3>
<ul style="list-style:none;padding:0;margin:20px 0;">
  <li><strong>Date :</strong> {{.EventDate}}</li>
  <li><strong>Lieu :</strong> {{.EventLocation}}</li>
</ul>
<p>Nous avons hâte de vous y retrouver !</p>
{{end}}`,

	tplPasswordReset: `{{define "content"}}
<p>Bonjour <strong>{{.FirstName}}</strong>,</p>
<p>Vous avez demandé la réinitialisation de votre mot de passe. Voici votre mot de passe temporaire :</p>
{{template "credentials" .}}
<p>Veuillez vous connecter et changer ce mot de passe immédiatement.</p>
{{template "button" .Button}}
{{end}}`,

	tplAdminAlert: `{{define "content"}}
<p>Une nouvelle action vous informe :</p>
<div style="background-color:#f3f4f6;padding:15px;border-radius:6px;font-family:monospace;">
{{range .Details}}{{.}}<br>{{end}}
</div>
{{template "button" .Button}}
{{end}}`,
}

const (
	tplReceived        = "received"
	tplWelcome         = "welcome"
	tplApproved        = "approved"
	tplRejected        = "rejected"
	tplEventRegistered = "event_registered"
	tplPasswordReset   = "password_reset"
	tplAdminAlert      = "admin_alert"
)

type button struct {
	URL   string
	Label string
}

// view is the data every template renders from.
type view struct {
	Brand string
	Title string
	Year  int

	FirstName string
	Email     string
	Password  string

	EventTitle    string
	EventDate     string
	EventLocation string

	Details []string
	Button  button
}

type Templates struct {
	set map[string]*template.Template
}

func ParseTemplates() (*Templates, error) {
	base, err := template.New("base").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	t := &Templates{set: make(map[string]*template.Template, len(bodies))}
	for name, body := range bodies {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		t.set[name] = clone
	}
	return t, nil
}

func (t *Templates) Render(name string, v view) (string, error) {
	tpl, ok := t.set[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	if v.Year == 0 {
		v.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

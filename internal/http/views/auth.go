package views

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
)

// LoginPage renders the guest sign-in form.
func LoginPage(data viewmodels.LoginViewData) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8"><title>Masuk · Angkasa</title>`)
		b.WriteString(`<link rel="stylesheet" href="/static/app.css"></head><body class="auth-page">`)
		writeToast(b, data.Toast)
		b.WriteString(`<main class="auth-card"><h1>Masuk ke Angkasa</h1>`)
		if data.ErrorMessage != "" {
			b.WriteString(`<p class="form-error" role="alert">` + esc(data.ErrorMessage) + `</p>`)
		}
		b.WriteString(`<form method="post" action="/login">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.CSRFToken) + `">`)
		if data.Next != "" {
			b.WriteString(`<input type="hidden" name="next" value="` + esc(data.Next) + `">`)
		}
		b.WriteString(`<label>Email<input type="email" name="email" value="` + esc(data.Email) + `" required autofocus></label>`)
		b.WriteString(`<label>Kata sandi<input type="password" name="password" required></label>`)
		b.WriteString(`<button type="submit" class="btn-primary">Masuk</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`<p class="auth-alt">Belum punya akun? <a href="/register">Daftar</a></p>`)
		b.WriteString(`</main></body></html>`)
	})
}

// RegisterPage renders the guest registration form.
func RegisterPage(data viewmodels.RegisterViewData) templ.Component {
	return component(func(b *strings.Builder) {
		b.WriteString(`<!DOCTYPE html><html lang="id"><head><meta charset="utf-8"><title>Daftar · Angkasa</title>`)
		b.WriteString(`<link rel="stylesheet" href="/static/app.css"></head><body class="auth-page">`)
		writeToast(b, data.Toast)
		b.WriteString(`<main class="auth-card"><h1>Bergabung dengan Angkasa</h1>`)
		if !data.RegistrationOpen {
			b.WriteString(`<p class="form-error" role="alert">Pendaftaran sedang ditutup.</p>`)
			b.WriteString(`<p class="auth-alt"><a href="/login">Kembali ke halaman masuk</a></p>`)
			b.WriteString(`</main></body></html>`)
			return
		}
		if data.ErrorMessage != "" {
			b.WriteString(`<p class="form-error" role="alert">` + esc(data.ErrorMessage) + `</p>`)
		}
		b.WriteString(`<form method="post" action="/register">`)
		b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.CSRFToken) + `">`)
		b.WriteString(`<label>Nama lengkap<input type="text" name="display_name" value="` + esc(data.DisplayName) + `" required autofocus></label>`)
		b.WriteString(`<label>Email<input type="email" name="email" value="` + esc(data.Email) + `" required></label>`)
		b.WriteString(`<label>Institusi<input type="text" name="institution" value="` + esc(data.Institution) + `"></label>`)
		b.WriteString(`<label>Daftar sebagai<select name="role">`)
		roleOption(b, "student", "Mahasiswa", data.Role)
		roleOption(b, "provider", "Penyelenggara", data.Role)
		b.WriteString(`</select></label>`)
		b.WriteString(`<label>Kata sandi<input type="password" name="password" minlength="8" required></label>`)
		b.WriteString(`<button type="submit" class="btn-primary">Daftar</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`<p class="auth-alt">Sudah punya akun? <a href="/login">Masuk</a></p>`)
		b.WriteString(`</main></body></html>`)
	})
}

func roleOption(b *strings.Builder, value, label, selected string) {
	b.WriteString(`<option value="` + value + `"`)
	if value == selected {
		b.WriteString(` selected`)
	}
	b.WriteString(`>` + esc(label) + `</option>`)
}

// VerifyPage renders the email verification outcome and the resend control.
func VerifyPage(data viewmodels.VerifyViewData) templ.Component {
	body := component(func(b *strings.Builder) {
		b.WriteString(`<section class="verify-card">`)
		if data.Success {
			b.WriteString(`<h1>Email terverifikasi</h1>`)
		} else {
			b.WriteString(`<h1>Verifikasi email</h1>`)
		}
		b.WriteString(`<p>` + esc(data.Message) + `</p>`)
		if data.ShowResendButton {
			b.WriteString(`<form method="post" action="/verify/resend">`)
			b.WriteString(`<input type="hidden" name="csrf" value="` + esc(data.Layout.CSRFToken) + `">`)
			if data.CooldownSeconds > 0 {
				b.WriteString(`<button type="submit" class="btn-primary" disabled>Kirim ulang (tunggu ` + FormatInt(data.CooldownSeconds) + ` dtk)</button>`)
			} else {
				b.WriteString(`<button type="submit" class="btn-primary">Kirim ulang email verifikasi</button>`)
			}
			b.WriteString(`</form>`)
		}
		b.WriteString(`</section>`)
	})
	return Layout(data.Layout, body)
}

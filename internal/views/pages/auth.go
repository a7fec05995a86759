package pages

import (
	"github.com/a-h/templ"

	"fichapp/internal/views/layout"
)

type authForm struct {
	Message string
	Name    string
	Email   string
}

// Login renders the full sign-in page.
func Login(message, email string) templ.Component {
	return layout.Layout("Sign in · FichApp", "", LoginPartial(message, email), false)
}

// LoginPartial renders the sign-in form alone for HTMX swaps.
func LoginPartial(message, email string) templ.Component {
	return render("login.html", authForm{Message: message, Email: email})
}

// Signup renders the full account creation page.
func Signup(message, name, email string) templ.Component {
	return layout.Layout("Create account · FichApp", "", SignupPartial(message, name, email), false)
}

// SignupPartial renders the account creation form alone for HTMX swaps.
func SignupPartial(message, name, email string) templ.Component {
	return render("signup.html", authForm{Message: message, Name: name, Email: email})
}

package http

import "html/template"

var (
	tplLogin   = template.Must(template.New("login").Parse(loginHTML))
	tplWelcome = template.Must(template.New("welcome").Parse(welcomeHTML))
)

// loginPage is the data rendered by tplLogin.
type loginPage struct {
	Email         string
	EmailError    string
	PasswordError string
}

const loginHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Sign in</title>
  <style>
    .error-message { color: #c0392b; min-height: 1em; }
    input.error { border-color: #c0392b; }
  </style>
</head>
<body>
  <h2>Sign in</h2>
  <form id="loginForm" method="post" action="/login" novalidate>
    <label for="email">Email</label>
    <input id="email" name="email" type="email" value="{{.Email}}"{{if .EmailError}} class="error"{{end}}>
    <div id="emailError" class="error-message{{if .EmailError}} show{{end}}">{{.EmailError}}</div>

    <label for="password">Password</label>
    <input id="password" name="password" type="password"{{if .PasswordError}} class="error"{{end}}>
    <div id="passwordError" class="error-message{{if .PasswordError}} show{{end}}">{{.PasswordError}}</div>

    <button id="submitBtn" type="submit">Sign in</button>
  </form>
</body>
</html>`

const welcomeHTML = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Welcome</title></head>
<body>
  <h2>Welcome, <span id="username">{{.Username}}</span></h2>
  <p>Email: <span id="userEmail">{{.Email}}</span></p>
  <p>Login time: <span id="loginTime">{{.LoginTime}}</span></p>

  <form method="post" action="/logout">
    <button id="logoutBtn" type="submit">Log out</button>
  </form>
</body>
</html>`

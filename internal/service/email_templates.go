package service

import "fmt"

func welcomeEmailTemplate(name, appURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Call your voice coach any time and the goals you talk
about will show up in the app automatically.

Get started: %s

Best,
The %s Team`, name, appURL, appName)

	return subject, body
}

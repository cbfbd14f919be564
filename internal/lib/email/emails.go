package email

func (c *Client) SendWelcomeEmail(to, name string) error {
	data := map[string]string{
		"UserName":  name,
		"UserEmail": to,
	}

	return c.SendEmail(
		to,
		"Welcome to Task Management!",
		TemplateWelcome,
		data,
	)
}

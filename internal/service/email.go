package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, nombre, titulo string, dueDate string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Recordatorio: préstamo vencido")

	body := fmt.Sprintf("Hola %s,\n\nEl préstamo del libro \"%s\" venció el %s. Por favor devuélvelo a la biblioteca lo antes posible.\n\nSaludos,\nBiblioteca", nombre, titulo, dueDate)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue reminder: %w", err)
	}

	return nil
}

package service

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) EmailService {
	p, _ := strconv.Atoi(port)
	return &emailService{
		host:     host,
		port:     p,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, customerName, carName string) error {
	body := fmt.Sprintf("Hello,\n\n%s requested to book your car %s.\n\nPlease review the request in your dashboard.\n\nBest regards,\nThe DriveShare Team", customerName, carName)
	return s.send(ownerEmail, fmt.Sprintf("New Booking Request - %s", carName), body)
}

func (s *emailService) SendBookingDecisionNotification(ctx context.Context, customerEmail, carName, decision, reason string) error {
	body := fmt.Sprintf("Hello,\n\nYour booking request for %s was %s.", carName, decision)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe DriveShare Team"
	return s.send(customerEmail, fmt.Sprintf("Booking %s - %s", decision, carName), body)
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, customerEmail, carName string, amount int64) error {
	body := fmt.Sprintf("Hello,\n\nWe received your payment of %d for the booking of %s. The funds are held in escrow until the trip completes.\n\nBest regards,\nThe DriveShare Team", amount, carName)
	return s.send(customerEmail, "Payment Received", body)
}

func (s *emailService) SendPayoutNotification(ctx context.Context, ownerEmail string, amount int64) error {
	body := fmt.Sprintf("Hello,\n\nA rental payout of %d was credited to your wallet.\n\nBest regards,\nThe DriveShare Team", amount)
	return s.send(ownerEmail, "Rental Payout Credited", body)
}

func (s *emailService) SendRefundNotification(ctx context.Context, customerEmail string, amount int64, reason string) error {
	body := fmt.Sprintf("Hello,\n\nA refund of %d was credited to your wallet.", amount)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe DriveShare Team"
	return s.send(customerEmail, "Refund Processed", body)
}

func (s *emailService) SendWithdrawDecisionNotification(ctx context.Context, ownerEmail, decision string, amount int64, reason string) error {
	body := fmt.Sprintf("Hello,\n\nYour withdrawal request of %d was %s.", amount, decision)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe DriveShare Team"
	return s.send(ownerEmail, "Withdrawal Request Update", body)
}

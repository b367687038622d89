// Package smtp provides the SMTP transport used by the purchase notifier.
package smtp

import "io"

// Client is the subset of *smtp.Client the sender service needs.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface opens authenticated SMTP connections.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}

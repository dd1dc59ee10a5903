package models

import "time"

// Settings is the singleton outbound transport configuration. It is stored
// as a single row and edited through the API; send and preview paths load it
// per invocation rather than caching it as process state.
type Settings struct {
	ID        int64     `db:"id" json:"id"`
	SMTPHost  string    `db:"smtp_host" json:"smtp_host"`
	SMTPPort  int       `db:"smtp_port" json:"smtp_port"`
	IMAPHost  string    `db:"imap_host" json:"imap_host"` // inbound check only, optional
	IMAPPort  int       `db:"imap_port" json:"imap_port"`
	Email     string    `db:"email" json:"email"` // sender address
	Username  string    `db:"username" json:"username"`
	Password  string    `db:"password" json:"password"`
	Secure    bool      `db:"secure" json:"secure"`
	DefaultCC string    `db:"default_cc" json:"default_cc"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

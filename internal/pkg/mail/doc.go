// Package mail delivers email through a provider-agnostic Mail interface.
//
// Two drivers exist: "smtp" speaks plain SMTP with opportunistic STARTTLS
// through net/smtp, and "smtps" uses gomail for implicit TLS (port 465).
// Both honor the caller's context deadline so a stalled server cannot hold a
// request past its budget.
package mail

package header

import (
	"net/mail"
	"net/url"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/util"
)

func parseURI(_ Version, s string) (*url.URL, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return nil, errtrace.Wrap(ErrEmptyValue)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, errtrace.Wrap(newMalformedValueErr(err))
	}
	return u, nil
}

func renderURI(_ Version, u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}

func validateURI(u *url.URL) error {
	if u == nil || *u == (url.URL{}) {
		return errtrace.Wrap(newInvalidValueErr("empty URI"))
	}
	return nil
}

// validatePartialURI rejects fragments, as required for Content-Location and Referer.
func validatePartialURI(u *url.URL) error {
	if err := validateURI(u); err != nil {
		return errtrace.Wrap(err)
	}
	if u.Fragment != "" {
		return errtrace.Wrap(newInvalidValueErr("URI %q has a fragment", u.Redacted()))
	}
	return nil
}

func validateReferer(u *url.URL) error {
	if err := validatePartialURI(u); err != nil {
		return errtrace.Wrap(err)
	}
	if u.User != nil {
		return errtrace.Wrap(newInvalidValueErr("URI %q has user info", u.Redacted()))
	}
	return nil
}

func parseMailbox(_ Version, s string) (*mail.Address, error) {
	if util.TrimOWS(s) == "" {
		return nil, errtrace.Wrap(ErrEmptyValue)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return nil, errtrace.Wrap(newMalformedValueErr(err))
	}
	return addr, nil
}

func renderMailbox(_ Version, addr *mail.Address) string {
	if addr == nil {
		return ""
	}
	if addr.Name == "" {
		return addr.Address
	}
	return addr.String()
}

func validateMailbox(addr *mail.Address) error {
	if addr == nil || addr.Address == "" {
		return errtrace.Wrap(newInvalidValueErr("empty mailbox"))
	}
	return nil
}

package header

import (
	"net/http"
	"strconv"
	"time"

	"braces.dev/errtrace"

	"github.com/ghettovoice/httphdr/internal/util"
)

var now = time.Now

func parseHTTPDate(s string) (time.Time, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return time.Time{}, errtrace.Wrap(ErrEmptyValue)
	}
	t, err := http.ParseTime(s)
	if err != nil {
		return time.Time{}, errtrace.Wrap(newMalformedValueErr(err))
	}
	return t, nil
}

func renderHTTPDate(_ Version, t time.Time) string { return t.UTC().Format(http.TimeFormat) }

func dateKey(name string, dir Direction) *Key[time.Time] {
	return MustKey(name, dir,
		func(_ Version, s string) (time.Time, error) { return errtrace.Wrap2(parseHTTPDate(s)) },
		renderHTTPDate,
		func(t time.Time) error {
			if t.IsZero() {
				return errtrace.Wrap(newInvalidValueErr("zero date"))
			}
			return nil
		},
	)
}

// Expired reports whether an Expires value denotes an already expired response.
func Expired(t time.Time) bool { return t.IsZero() || !t.After(now()) }

// parseExpires treats "0" and past dates as already expired, represented by the zero time (RFC 9111 section 5.3).
func parseExpires(_ Version, s string) (time.Time, error) {
	s = util.TrimOWS(s)
	if s == "" {
		return time.Time{}, errtrace.Wrap(ErrEmptyValue)
	}
	if s == "0" {
		return time.Time{}, nil
	}
	t, err := parseHTTPDate(s)
	if err != nil {
		return time.Time{}, errtrace.Wrap(err)
	}
	if Expired(t) {
		return time.Time{}, nil
	}
	return t, nil
}

func renderExpires(v Version, t time.Time) string {
	if Expired(t) {
		return "0"
	}
	return renderHTTPDate(v, t)
}

// RetryTime is either a date or a delay.
type RetryTime struct {
	Date  time.Time
	Delay time.Duration
}

// At returns the moment to retry after relative to base.
func (r RetryTime) At(base time.Time) time.Time {
	if !r.Date.IsZero() {
		return r.Date
	}
	return base.Add(r.Delay)
}

func (r RetryTime) String() string {
	if !r.Date.IsZero() {
		return r.Date.UTC().Format(http.TimeFormat)
	}
	return strconv.FormatInt(int64(r.Delay/time.Second), 10)
}

func (r RetryTime) Equal(val any) bool {
	other, ok := val.(RetryTime)
	if !ok {
		return false
	}
	return r.Delay == other.Delay && r.Date.Equal(other.Date)
}

func parseRetryAfter(_ Version, s string) (RetryTime, error) {
	s = util.TrimOWS(s)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		n, err := parseUint(s)
		if err != nil {
			return RetryTime{}, errtrace.Wrap(err)
		}
		return RetryTime{Delay: time.Duration(n) * time.Second}, nil
	}
	t, err := parseHTTPDate(s)
	if err != nil {
		return RetryTime{}, errtrace.Wrap(err)
	}
	return RetryTime{Date: t}, nil
}

func validateRetryAfter(r RetryTime) error {
	if !r.Date.IsZero() && r.Delay != 0 {
		return errtrace.Wrap(newInvalidValueErr("both date and delay are set"))
	}
	if r.Delay < 0 || r.Delay%time.Second != 0 {
		return errtrace.Wrap(newInvalidValueErr("invalid delay %s", r.Delay))
	}
	return nil
}

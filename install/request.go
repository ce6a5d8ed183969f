package install

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-company-auth/internal/errors"
	"github.com/jrsteele09/go-company-auth/signature"
)

const (
	ParamCompanyID  = "company_id"
	ParamCode       = "code"
	ParamTimestamp  = "timestamp"
	ParamRedirectTo = "redirect_to"

	// FreshnessWindow bounds how old a signed callback may be.
	FreshnessWindow = 5 * time.Minute
)

// CallbackRequest is the provider's redirect back to us after a company
// authorises the app. RawQuery is kept verbatim for signature checks.
type CallbackRequest struct {
	CompanyID  string
	Code       string
	Timestamp  string
	HMAC       string
	RedirectTo string
	RawQuery   string
}

// ParseCallbackRequest reads the callback parameters from a raw query string.
// A redirect_to value that fails to percent-decode is dropped.
func ParseCallbackRequest(rawQuery string) CallbackRequest {
	values, _ := url.ParseQuery(rawQuery)
	return CallbackRequest{
		CompanyID:  strings.TrimSpace(values.Get(ParamCompanyID)),
		Code:       values.Get(ParamCode),
		Timestamp:  strings.TrimSpace(values.Get(ParamTimestamp)),
		HMAC:       strings.TrimSpace(values.Get(signature.Param)),
		RedirectTo: strings.TrimSpace(values.Get(ParamRedirectTo)),
		RawQuery:   rawQuery,
	}
}

func (r CallbackRequest) validateEntry() error {
	if r.CompanyID == "" {
		return apperrors.Wrapf(apperrors.ErrMissingParameter, "%s", ParamCompanyID)
	}
	if r.HMAC == "" {
		return apperrors.Wrapf(apperrors.ErrMissingParameter, "%s", signature.Param)
	}
	return nil
}

// checkFreshness rejects callbacks whose unix-seconds timestamp is more than
// FreshnessWindow older than now.
func checkFreshness(timestamp string, now time.Time) error {
	if timestamp == "" {
		return apperrors.Wrapf(apperrors.ErrMissingParameter, "%s", ParamTimestamp)
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidTimestamp, "%q", timestamp)
	}
	ageMillis := now.UnixMilli() - ts*1000
	if ageMillis > FreshnessWindow.Milliseconds() {
		return apperrors.Wrapf(apperrors.ErrStaleCallback, "age %s", time.Duration(ageMillis)*time.Millisecond)
	}
	return nil
}

package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vape-shop-api/internal/domain"
)

// LoginData is the verified identity from a Telegram Login Widget callback.
type LoginData struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	AuthDate  time.Time
}

// LoginVerifier checks the widget's hash against the bot token.
type LoginVerifier struct {
	enabled bool
	secret  [32]byte
	maxAge  time.Duration
	now     func() time.Time
}

func NewLoginVerifier(botToken string, maxAge time.Duration) *LoginVerifier {
	return &LoginVerifier{
		enabled: botToken != "",
		secret:  sha256.Sum256([]byte(botToken)),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Verify validates fields as received from the widget (all values as
// strings, including "hash"). Returns a domain.ErrUnauthorized-wrapped
// error if the signature is wrong or auth_date is too old.
func (v *LoginVerifier) Verify(fields map[string]string) (*LoginData, error) {
	if !v.enabled {
		return nil, fmt.Errorf("telegram login: bot token not configured: %w", domain.ErrUnauthorized)
	}
	hash := fields["hash"]
	if hash == "" {
		return nil, fmt.Errorf("telegram login: missing hash: %w", domain.ErrUnauthorized)
	}
	mac := hmac.New(sha256.New, v.secret[:])
	mac.Write([]byte(DataCheckString(fields)))
	want := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(hash))) {
		return nil, fmt.Errorf("telegram login: bad hash: %w", domain.ErrUnauthorized)
	}

	authUnix, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram login: bad auth_date: %w", domain.ErrUnauthorized)
	}
	authDate := time.Unix(authUnix, 0).UTC()
	if v.maxAge > 0 && v.now().Sub(authDate) > v.maxAge {
		return nil, fmt.Errorf("telegram login: auth_date too old: %w", domain.ErrUnauthorized)
	}

	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("telegram login: bad id: %w", domain.ErrUnauthorized)
	}
	return &LoginData{
		ID:        id,
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Username:  fields["username"],
		PhotoURL:  fields["photo_url"],
		AuthDate:  authDate,
	}, nil
}

// DataCheckString joins every non-empty field except hash as key=value,
// sorted by key and separated by newlines.
func DataCheckString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, val := range fields {
		if k == "hash" || val == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}
	return strings.Join(lines, "\n")
}

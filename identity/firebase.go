package identity

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Faaz345/playsplit/clock"
)

const (
	GoogleCertsURL   = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	firebaseIssuer   = "https://securetoken.google.com/"
	defaultCertsTTL  = time.Hour
	certFetchTimeout = 5 * time.Second
)

type firebaseClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PhoneNumber   string `json:"phone_number"`
	AuthTime      int64  `json:"auth_time"`
	Firebase      struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
	jwt.RegisteredClaims
}

// FirebaseVerifier checks Firebase ID tokens against Google's rotating x509 certificates.
type FirebaseVerifier struct {
	projectID  string
	certsURL   string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func NewFirebaseVerifier(projectID, certsURL string, clk clock.Clock, logger *slog.Logger) *FirebaseVerifier {
	if certsURL == "" {
		certsURL = GoogleCertsURL
	}
	return &FirebaseVerifier{
		projectID:  projectID,
		certsURL:   certsURL,
		httpClient: &http.Client{Timeout: certFetchTimeout},
		clock:      clk,
		logger:     logger,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithoutClaimsValidation())
	claims := &firebaseClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return v.key(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if err := v.validate(claims); err != nil {
		return nil, err
	}

	return &Claims{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		Phone:         claims.PhoneNumber,
		Provider:      claims.Firebase.SignInProvider,
	}, nil
}

func (v *FirebaseVerifier) validate(c *firebaseClaims) error {
	now := v.clock.Now()
	if c.ExpiresAt == nil || !c.VerifyExpiresAt(now, true) {
		return ErrTokenExpired
	}
	if !c.VerifyIssuedAt(now.Add(time.Minute), true) {
		return fmt.Errorf("%w: issued in the future", ErrTokenInvalid)
	}
	if !c.VerifyAudience(v.projectID, true) {
		return fmt.Errorf("%w: unexpected audience", ErrTokenInvalid)
	}
	if !c.VerifyIssuer(firebaseIssuer+v.projectID, true) {
		return fmt.Errorf("%w: unexpected issuer", ErrTokenInvalid)
	}
	if c.Subject == "" || len(c.Subject) > 128 {
		return fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	if c.AuthTime > now.Add(time.Minute).Unix() {
		return fmt.Errorf("%w: auth_time in the future", ErrTokenInvalid)
	}
	return nil
}

func (v *FirebaseVerifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := v.clock.Now().Before(v.expiresAt)
	v.mu.RUnlock()
	if ok && fresh {
		return key, nil
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if key, ok := v.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}

// refresh перезагружает сертификаты; срок кэша берется из Cache-Control.
func (v *FirebaseVerifier) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch signing certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch signing certificates: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return fmt.Errorf("failed to decode signing certificates: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemCert := range certs {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemCert))
		if err != nil {
			v.logger.Warn("skipping unparsable signing certificate", "kid", kid, "error", err)
			continue
		}
		keys[kid] = key
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = v.clock.Now().Add(maxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()

	v.logger.Debug("signing certificates refreshed", "count", len(keys))
	return nil
}

func maxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultCertsTTL
}

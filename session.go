package camedomotic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// sessionSafeZone is subtracted from the server-declared keep-alive
// interval when computing the local expiry, so renewal happens before the
// gateway-side timeout fires.
const sessionSafeZone = 30 * time.Second

// Session owns the gateway session lifecycle: the server-issued client ID,
// its expiry, the command sequence counter, and the credentials needed to
// (re)establish it. All state mutations happen under a single mutex, which
// guarantees at most one in-flight login even when many callers race
// against an expired session.
type Session struct {
	transport *transport
	vault     *credentialVault
	logger    zerolog.Logger

	cmdTimeout     time.Duration
	ownsHTTPClient bool

	// now is the clock used for expiry decisions; swappable in tests.
	now func() time.Time

	mu        sync.Mutex
	clientID  string
	expiresAt time.Time
	keepAlive time.Duration
	cseq      int
	closed    bool
}

// Option configures a Session (and therefore a Client).
type Option func(*Session)

// WithHTTPClient sets a custom HTTP client. A client supplied this way is
// not closed when the Session is disposed.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.transport.httpClient = client
		s.ownsHTTPClient = false
	}
}

// WithCommandTimeout sets the default per-command timeout
// (default: DefaultCommandTimeout).
func WithCommandTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.cmdTimeout = timeout
	}
}

// WithLogger configures a structured logger. The default logger discards
// everything.
//
// Example:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	client, _ := camedomotic.NewClient(ctx, host, user, pass, camedomotic.WithLogger(logger))
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a Session for the gateway at host and probes the
// endpoint. Returns an error wrapping ErrServerNotFound if the probe fails.
// No login is performed until the first command needs one.
func NewSession(ctx context.Context, host, username, password string, opts ...Option) (*Session, error) {
	if host == "" {
		return nil, ErrEmptyHost
	}
	if username == "" {
		return nil, ErrEmptyUsername
	}

	vault, err := newCredentialVault(username, password)
	if err != nil {
		return nil, fmt.Errorf("%w: initializing credential vault: %w", ErrServer, err)
	}

	s := &Session{
		transport:      &transport{host: host, httpClient: defaultHTTPClient()},
		vault:          vault,
		logger:         zerolog.Nop(),
		cmdTimeout:     DefaultCommandTimeout,
		ownsHTTPClient: true,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Expiry starts in the past so the first command triggers a login.
	s.expiresAt = s.now().Add(-time.Hour)

	if err := s.transport.validateHost(ctx, s.cmdTimeout); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("host", host).Msg("gateway endpoint validated")

	return s, nil
}

// Host returns the gateway address the session was created for.
func (s *Session) Host() string {
	return s.transport.host
}

// Cseq returns the current command sequence counter. The counter advances
// once per successful round trip and is read by callers that build data
// request payloads.
func (s *Session) Cseq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cseq
}

// IsSessionValid reports whether a login would be skipped right now: the
// client ID is set and the expiry (safe zone already applied) is in the
// future.
func (s *Session) IsSessionValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionValidLocked()
}

func (s *Session) sessionValidLocked() bool {
	return s.clientID != "" && s.now().Before(s.expiresAt)
}

// ValidClientID returns a client ID that is guaranteed fresh for the
// duration of this call, logging in first if the session is missing or
// expired. Every higher-level operation passes through this gate before
// building a payload that carries the session identifier.
//
// Concurrent callers serialize on the session mutex: the first caller to
// acquire it performs the login, and the rest observe the fresh session and
// return immediately.
func (s *Session) ValidClientID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	if !s.sessionValidLocked() {
		if err := s.loginLocked(ctx); err != nil {
			return "", err
		}
	}
	return s.clientID, nil
}

// SendOption configures a single SendCommand call.
type SendOption func(*sendOptions)

type sendOptions struct {
	timeout      time.Duration
	skipAckCheck bool
}

// WithTimeout overrides the session's default timeout for one command.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		o.timeout = timeout
	}
}

// SkipAckCheck disables acknowledgement-code validation for one command,
// leaving classification to the caller. The login path uses this so that a
// bad-credentials acknowledgement surfaces as an authentication error
// instead of a generic server error.
func SkipAckCheck() SendOption {
	return func(o *sendOptions) {
		o.skipAckCheck = true
	}
}

// ackEnvelope is the part of every gateway response the session layer
// inspects.
type ackEnvelope struct {
	AckReason *int `json:"sl_data_ack_reason"`
}

// SendCommand posts a JSON envelope to the gateway and returns the raw
// response body for the caller to decode. On any 2xx response the command
// sequence is incremented and the session expiry refreshed, regardless of
// what the payload was: any successful exchange is evidence the session is
// alive, so it doubles as an implicit keep-alive. Unless SkipAckCheck is
// given, a non-zero acknowledgement code is returned as an *AckError.
func (s *Session) SendCommand(ctx context.Context, payload any, opts ...SendOption) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.sendLocked(ctx, payload, opts...)
}

func (s *Session) sendLocked(ctx context.Context, payload any, opts ...SendOption) (json.RawMessage, error) {
	options := sendOptions{timeout: s.cmdTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	body, err := s.transport.post(ctx, payload, options.timeout)
	if err != nil {
		// Timeouts and transport failures leave session state untouched:
		// expiry and sequence advance only on demonstrated success.
		s.logger.Error().Str("cmd", commandName(payload)).Err(err).Msg("command failed")
		if IsServerError(err) || IsAuthError(err) || IsServerNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: sending command: %w", ErrServer, err)
	}

	s.cseq++
	s.refreshExpiryLocked()

	var env ackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", ErrServer, err)
	}

	if !options.skipAckCheck && env.AckReason != nil && *env.AckReason != 0 {
		ackErr := newAckError(*env.AckReason)
		s.logger.Error().Str("cmd", commandName(payload)).Int("ack", ackErr.Code).Msg(ackErr.Message)
		return nil, ackErr
	}

	return body, nil
}

// refreshExpiryLocked recomputes the expiry as now plus the keep-alive
// interval minus the safe zone, clamped at zero.
func (s *Session) refreshExpiryLocked() {
	ttl := s.keepAlive - sessionSafeZone
	if ttl < 0 {
		ttl = 0
	}
	s.expiresAt = s.now().Add(ttl)
}

// loginResponse is the gateway's answer to sl_registration_req.
type loginResponse struct {
	ClientID            string `json:"sl_client_id"`
	KeepAliveTimeoutSec int    `json:"sl_keep_alive_timeout_sec"`
	AckReason           *int   `json:"sl_data_ack_reason"`
}

// loginLocked establishes a fresh session. Any failure on this path is an
// authentication error: a rejected login, a malformed login response, and a
// login-time network failure are indistinguishable to the caller, and "could
// not establish a session" is the honest classification for all of them.
func (s *Session) loginLocked(ctx context.Context) error {
	username, err := s.vault.Username()
	if err != nil {
		return err
	}
	password, err := s.vault.Password()
	if err != nil {
		return err
	}

	body, err := s.sendLocked(ctx, loginPayload(username, password), SkipAckCheck())
	if err != nil {
		if IsAuthError(err) {
			return err
		}
		return fmt.Errorf("%w: login failed: %v", ErrAuth, err)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: bad login response: %v", ErrAuth, err)
	}

	if resp.AckReason != nil && *resp.AckReason == 1 {
		return fmt.Errorf("%w: bad credentials", ErrAuth)
	}
	if resp.AckReason != nil && *resp.AckReason != 0 {
		return fmt.Errorf("%w: %v", ErrAuth, newAckError(*resp.AckReason))
	}
	if resp.ClientID == "" {
		return fmt.Errorf("%w: login response missing sl_client_id", ErrAuth)
	}

	s.clientID = resp.ClientID
	s.keepAlive = time.Duration(resp.KeepAliveTimeoutSec) * time.Second
	s.refreshExpiryLocked()
	s.logger.Debug().Int("keep_alive_sec", resp.KeepAliveTimeoutSec).Msg("session established")

	return nil
}

// Login ensures the session is alive: it logs in when no valid session
// exists and sends a keep-alive otherwise. Callers never need to
// distinguish first login from renewal.
func (s *Session) Login(ctx context.Context) error {
	return s.ensureAlive(ctx)
}

// KeepAlive is an alias of Login: refreshing a valid session and
// establishing a missing one are the same operation from the caller's
// point of view.
func (s *Session) KeepAlive(ctx context.Context) error {
	return s.ensureAlive(ctx)
}

func (s *Session) ensureAlive(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.sessionValidLocked() {
		return s.loginLocked(ctx)
	}
	_, err := s.sendLocked(ctx, keepAlivePayload(s.clientID))
	return err
}

// Logout terminates the session on the gateway. The local token is cleared
// and the expiry forced into the past no matter how the request itself
// fares; a transport failure still surfaces as a server error. A session
// that is already invalid is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.sessionValidLocked() {
		return nil
	}

	_, err := s.sendLocked(ctx, logoutPayload(s.clientID))
	s.clientID = ""
	s.expiresAt = s.now()
	return err
}

// UpdateCredentials replaces the stored credentials. The current session is
// invalidated as a side effect: changed credentials always mean the old
// token is no longer trustworthy.
func (s *Session) UpdateCredentials(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.vault.set(username, password)
	s.clientID = ""
	s.expiresAt = s.now().Add(-time.Hour)
	return nil
}

// Close disposes the session: a best-effort logout (server errors are
// swallowed, disposal must not fail because the gateway is unreachable),
// release of the owned HTTP client, and an irreversible scrub of the
// credentials and cipher material. Close never fails; the Session is
// unusable afterwards.
func (s *Session) Close(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("logout during disposal failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.clientID = ""
	s.expiresAt = s.now()
	s.vault.scrub()
	if s.ownsHTTPClient {
		s.transport.close()
	}
}

// sessionSnapshot captures the complete session state: encrypted
// credentials, client ID, expiry, keep-alive interval, and sequence
// counter. Restoring it returns the Session to the captured state verbatim,
// which is what makes identity switching recoverable.
type sessionSnapshot struct {
	username  []byte
	password  []byte
	clientID  string
	expiresAt time.Time
	keepAlive time.Duration
	cseq      int
}

// backup captures the current session state.
func (s *Session) backup() sessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sessionSnapshot{
		username:  s.vault.username,
		password:  s.vault.password,
		clientID:  s.clientID,
		expiresAt: s.expiresAt,
		keepAlive: s.keepAlive,
		cseq:      s.cseq,
	}
}

// restore overwrites the session state with a prior snapshot.
func (s *Session) restore(snap sessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vault.username = snap.username
	s.vault.password = snap.password
	s.clientID = snap.clientID
	s.expiresAt = snap.expiresAt
	s.keepAlive = snap.keepAlive
	s.cseq = snap.cseq
}

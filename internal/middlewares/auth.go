package middlewares

import (
	"context"
	"net/http"

	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/sirupsen/logrus"
)

const (
	authErrorMessage   = "Authentication failed"
	authErrorLogHeader = "Authentication error: "
	identityHeader     = "x-rh-identity"
	PSKClientIdHeader  = "x-rh-connection-catalog-client-id"
	PSKOrgIdHeader     = "x-rh-connection-catalog-org-id"
	PSKAccountHeader   = "x-rh-connection-catalog-account"
	PSKHeader          = "x-rh-connection-catalog-psk"
)

// AuthMiddleware allows the passage of parameters into the Authenticate middleware
type AuthMiddleware struct {
	Secrets      map[string]interface{}
	IdentityAuth func(http.Handler) http.Handler
}

// Authenticate determines which authentication method should be used, and delegates identity header
// auth to the identity middleware
func (amw *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(identityHeader) != "" { // identity header auth
			amw.IdentityAuth(next).ServeHTTP(w, r)
		} else { // token auth
			sr := newServiceCredentials(
				r.Header.Get(PSKClientIdHeader),
				r.Header.Get(PSKOrgIdHeader),
				r.Header.Get(PSKAccountHeader),
				r.Header.Get(PSKHeader),
			)

			logger.Log.Debugf("Received service to service request from %v using org_id:%v", sr.clientID, sr.orgID)
			validator := serviceCredentialsValidator{knownServiceCredentials: amw.Secrets}
			if err := validator.validate(sr); err != nil {
				logger.Log.WithFields(logrus.Fields{"error": err}).Debug("Authentication failure")
				http.Error(w, authErrorMessage, 401)
				return
			}

			principal := serviceToServicePrincipal{account: sr.account, orgID: sr.orgID, clientID: sr.clientID}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	})
}

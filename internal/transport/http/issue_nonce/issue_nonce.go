package issuenonce

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hrrarya/order-pdf-export/internal/security/identity"
	"github.com/hrrarya/order-pdf-export/internal/security/nonce"
)

type issueNonceResponse struct {
	Nonce string `json:"nonce"`
}

// IssueNonce hands the admin UI a token for the export action scope,
// bound to the caller's session.
func IssueNonce(w http.ResponseWriter, r *http.Request, nonces *nonce.Service) {
	session := identity.SessionFromContext(r.Context())
	token := nonces.Issue(nonce.ScopeOrderExport, session)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(issueNonceResponse{Nonce: token}); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

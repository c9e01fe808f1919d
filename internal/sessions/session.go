package sessions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docdesk/docdesk/backend/go-services/internal/models"
)

// DefaultKey is the fixed key of the persisted current-user entry.
const DefaultKey = "user"

// encode serializes the current user as stored: no password, no version.
func encode(u models.CurrentUser) ([]byte, error) {
	return json.Marshal(u)
}

// decode parses a stored entry. Anything that is not a well-formed user with
// an id, an email and a known role is rejected.
func decode(b []byte) (models.CurrentUser, error) {
	var u models.CurrentUser
	if err := json.Unmarshal(b, &u); err != nil {
		return models.CurrentUser{}, fmt.Errorf("malformed session: %w", err)
	}
	if strings.TrimSpace(u.ID) == "" || !strings.Contains(u.Email, "@") {
		return models.CurrentUser{}, fmt.Errorf("malformed session: missing id or email")
	}
	if !u.Role.Valid() {
		return models.CurrentUser{}, fmt.Errorf("malformed session: unknown role %q", u.Role)
	}
	return u, nil
}

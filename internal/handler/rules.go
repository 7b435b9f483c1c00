package handler

import (
	"errors"
	"fmt"
	"net/http"

	"gamescope/app/internal/backend"
	"gamescope/app/internal/models"
)

// accessError carries the status a rule violation is reported with.
type accessError struct {
	status  int
	message string
}

func (e *accessError) Error() string { return e.message }

func forbidden(msg string) error { return &accessError{status: http.StatusForbidden, message: msg} }

func unprocessable(msg string) error {
	return &accessError{status: http.StatusUnprocessableEntity, message: msg}
}

// collectionRule is the write policy of one collection. Every signed-in
// account may read every collection.
type collectionRule struct {
	// adminWrite restricts all writes to admins.
	adminWrite bool
	// ownerField names the field holding the owner's account ID. Only the
	// owner (or an admin) may update or delete, and it cannot change.
	ownerField string
	// validate checks a full document on create and a patch on update.
	validate func(data map[string]any, partial bool) error
}

var collectionRules = map[string]collectionRule{
	models.CollectionGames: {
		adminWrite: true,
		validate:   validateGame,
	},
	models.CollectionReviews: {
		ownerField: "userId",
		validate:   validateReview,
	},
	models.CollectionFavorites: {
		ownerField: "userId",
		validate:   validateFavorite,
	},
}

func lookupRule(collection string) (collectionRule, bool) {
	r, ok := collectionRules[collection]
	return r, ok
}

func (r collectionRule) checkCreate(account models.Account, data map[string]any) error {
	if r.adminWrite && !account.IsAdmin() {
		return forbidden("Admin access required")
	}
	if r.ownerField != "" {
		owner, _ := data[r.ownerField].(string)
		if owner != account.PublicID() {
			return forbidden(fmt.Sprintf("%s must be the signed-in account", r.ownerField))
		}
	}
	if r.validate != nil {
		return r.validate(data, false)
	}
	return nil
}

func (r collectionRule) checkModify(account models.Account, existing backend.Document) error {
	if r.adminWrite && !account.IsAdmin() {
		return forbidden("Admin access required")
	}
	if r.ownerField != "" && !account.IsAdmin() {
		owner, _ := existing.Data[r.ownerField].(string)
		if owner != account.PublicID() {
			return forbidden("Only the owner may change this document")
		}
	}
	return nil
}

func (r collectionRule) checkUpdate(account models.Account, existing backend.Document, patch map[string]any) error {
	if err := r.checkModify(account, existing); err != nil {
		return err
	}
	if r.ownerField != "" {
		if v, ok := patch[r.ownerField]; ok {
			owner, _ := existing.Data[r.ownerField].(string)
			if s, _ := v.(string); s != owner {
				return forbidden(fmt.Sprintf("%s cannot be changed", r.ownerField))
			}
		}
	}
	if r.validate != nil {
		return r.validate(patch, true)
	}
	return nil
}

func validateGame(data map[string]any, partial bool) error {
	return requireStrings(data, partial, "title")
}

func validateReview(data map[string]any, partial bool) error {
	if err := requireStrings(data, partial, "gameId", "userName", "content", "timestamp"); err != nil {
		return err
	}
	if v, ok := data["content"]; ok {
		if _, err := models.ValidateReviewContent(v.(string)); err != nil {
			return unprocessable(err.Error())
		}
	}
	if v, ok := data["userName"]; ok {
		if _, err := models.ValidateDisplayName(v.(string)); err != nil {
			return unprocessable(err.Error())
		}
	}
	return nil
}

func validateFavorite(data map[string]any, partial bool) error {
	return requireStrings(data, partial, "gameId")
}

// requireStrings checks that fields are non-empty strings. A partial update
// only checks the fields it carries.
func requireStrings(data map[string]any, partial bool, fields ...string) error {
	for _, field := range fields {
		v, ok := data[field]
		if !ok {
			if partial {
				continue
			}
			return unprocessable(fmt.Sprintf("%s is required", field))
		}
		s, isString := v.(string)
		if !isString {
			return unprocessable(fmt.Sprintf("%s must be a string", field))
		}
		if s == "" {
			return unprocessable(fmt.Sprintf("%s must not be empty", field))
		}
	}
	return nil
}

func asAccessError(err error) (*accessError, bool) {
	var ae *accessError
	ok := errors.As(err, &ae)
	return ae, ok
}

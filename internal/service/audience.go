// internal/service/audience.go
package service

import (
	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
	"github.com/unclebandit/broadcast-backend/internal/model"
	"github.com/unclebandit/broadcast-backend/internal/repository"
)

// AudienceResolver turns a selector plus optional explicit ids into the
// concrete, channel-filtered recipient set. Pure read; the result reflects
// directory contents at call time.
type AudienceResolver struct {
	Recipients repository.RecipientRepositoryInterface
}

func (r *AudienceResolver) Resolve(channel, selector string, recipientIDs []int64) ([]model.Recipient, error) {
	var (
		matches []model.Recipient
		err     error
	)

	switch selector {
	case model.AudienceCustom:
		if len(recipientIDs) == 0 {
			return nil, appErrors.NewInvalidAudience("custom audience requires at least one explicit recipient")
		}
		matches, err = r.Recipients.FindActiveByIDs(recipientIDs)
	case model.AudienceInactive:
		matches, err = r.Recipients.FindByActive(false)
	case model.AudienceAll, model.AudienceActive, model.AudienceAllMobileUsers:
		matches, err = r.Recipients.FindByActive(true)
	default:
		return nil, appErrors.NewInvalidAudience("unknown audience selector " + selector)
	}
	if err != nil {
		return nil, err
	}

	// Keep only recipients reachable over the campaign's channel. Push
	// targets the user identity; phone presence is the mobile-user proxy.
	eligible := matches[:0]
	for _, rec := range matches {
		switch channel {
		case model.ChannelEmail:
			if rec.HasEmail() {
				eligible = append(eligible, rec)
			}
		case model.ChannelSMS, model.ChannelPush:
			if rec.HasPhone() {
				eligible = append(eligible, rec)
			}
		}
	}
	return eligible, nil
}

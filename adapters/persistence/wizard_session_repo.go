package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minhle/folioforge/internal/wizard"
)

// A wizard session lives a day: long enough to finish a form across
// reloads, short enough not to pin abandoned drafts forever.
const wizardSessionTTL = 24 * time.Hour

type redisWizardSessionRepo struct {
	client *redis.Client
}

func NewRedisWizardSessionRepo(client *redis.Client) wizard.SessionRepository {
	return &redisWizardSessionRepo{client: client}
}

func wizardSessionKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("wizard:session:%s", ownerID.String())
}

func (r *redisWizardSessionRepo) Load(ctx context.Context, ownerID uuid.UUID) (*wizard.Session, error) {
	raw, err := r.client.Get(ctx, wizardSessionKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, wizard.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load wizard session failed: %w", err)
	}

	session := &wizard.Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("wizard session corrupt: %w", err)
	}
	return session, nil
}

func (r *redisWizardSessionRepo) Save(ctx context.Context, session *wizard.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal wizard session failed: %w", err)
	}
	if err := r.client.Set(ctx, wizardSessionKey(session.OwnerID), raw, wizardSessionTTL).Err(); err != nil {
		return fmt.Errorf("save wizard session failed: %w", err)
	}
	return nil
}

func (r *redisWizardSessionRepo) Delete(ctx context.Context, ownerID uuid.UUID) error {
	if err := r.client.Del(ctx, wizardSessionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("delete wizard session failed: %w", err)
	}
	return nil
}

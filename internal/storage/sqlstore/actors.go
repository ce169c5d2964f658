package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/fuzzy"
)

// ActorStore implements domain.ActorRepository over the same connection and
// mutex as the enclosing Store. It is a distinct type because Go does not
// allow a single type to carry two methods both named Save/Delete/Exists
// with different argument types.
type ActorStore struct {
	store *Store
}

// Actors returns the actor-scoped repository view of s.
func (s *Store) Actors() *ActorStore {
	return &ActorStore{store: s}
}

// Save inserts or updates an actor, preserving created_at across re-saves.
func (a *ActorStore) Save(ctx context.Context, act *domain.Actor) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return saveActor(ctx, a.store.db, act)
}

func saveActor(ctx context.Context, exec execer, act *domain.Actor) error {
	if err := act.Validate(); err != nil {
		return err
	}

	var existingCreatedAt string
	err := exec.QueryRowContext(ctx, "SELECT created_at FROM actors WHERE id = ?", act.ID).Scan(&existingCreatedAt)
	switch {
	case err == nil:
		if t, parseErr := time.Parse(timeLayout, existingCreatedAt); parseErr == nil {
			act.Metadata.CreatedAt = t
		}
	case err == sql.ErrNoRows:
		// first save, keep act.Metadata.CreatedAt as constructed
	default:
		return apperr.StorageFailure("checking existing actor", err)
	}
	act.Touch()

	goalsJSON, _ := json.Marshal(act.Goals)
	frustrationsJSON, _ := json.Marshal(act.Frustrations)
	extraJSON, _ := json.Marshal(act.Extra)

	_, err = exec.ExecContext(ctx, `
		INSERT INTO actors (id, name, actor_type, emoji, goals_json, frustrations_json, tech_proficiency, extra_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, actor_type=excluded.actor_type, emoji=excluded.emoji,
			goals_json=excluded.goals_json, frustrations_json=excluded.frustrations_json,
			tech_proficiency=excluded.tech_proficiency, extra_json=excluded.extra_json,
			updated_at=excluded.updated_at`,
		act.ID, act.Name, string(act.Type), act.Emoji, string(goalsJSON), string(frustrationsJSON),
		act.TechProficiency, string(extraJSON),
		act.Metadata.CreatedAt.Format(timeLayout), act.Metadata.UpdatedAt.Format(timeLayout))
	if err != nil {
		return apperr.StorageFailure("saving actor", err)
	}
	return nil
}

// LoadAll returns every actor ordered by id.
func (a *ActorStore) LoadAll(ctx context.Context) ([]*domain.Actor, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	rows, err := a.store.db.QueryContext(ctx, "SELECT id FROM actors ORDER BY id")
	if err != nil {
		return nil, apperr.StorageFailure("listing actors", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, apperr.StorageFailure("scanning actor id", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	out := make([]*domain.Actor, 0, len(ids))
	for _, id := range ids {
		act, err := loadActorByID(ctx, a.store.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, act)
	}
	return out, nil
}

// LoadByID returns the actor with the given id, or a NotFound error with
// fuzzy suggestions.
func (a *ActorStore) LoadByID(ctx context.Context, id string) (*domain.Actor, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return loadActorByID(ctx, a.store.db, id)
}

func loadActorByID(ctx context.Context, exec execer, id string) (*domain.Actor, error) {
	row := exec.QueryRowContext(ctx,
		`SELECT id, name, actor_type, emoji, goals_json, frustrations_json, tech_proficiency, extra_json, created_at, updated_at
		 FROM actors WHERE id = ?`, id)

	var act domain.Actor
	var actorType, goalsJSON, frustrationsJSON, extraJSON, createdAt, updatedAt string
	err := row.Scan(&act.ID, &act.Name, &actorType, &act.Emoji, &goalsJSON, &frustrationsJSON,
		&act.TechProficiency, &extraJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		allIDs, _ := queryAllActorIDs(ctx, exec)
		return nil, apperr.NotFound("actor", id, fuzzy.ClosestMatches(id, allIDs, 3))
	}
	if err != nil {
		return nil, apperr.StorageFailure("loading actor", err)
	}

	act.Type = domain.ActorType(actorType)
	_ = json.Unmarshal([]byte(goalsJSON), &act.Goals)
	_ = json.Unmarshal([]byte(frustrationsJSON), &act.Frustrations)
	act.Extra = map[string]any{}
	_ = json.Unmarshal([]byte(extraJSON), &act.Extra)
	act.Metadata.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	act.Metadata.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &act, nil
}

func queryAllActorIDs(ctx context.Context, exec execer) ([]string, error) {
	rows, err := exec.QueryContext(ctx, "SELECT id FROM actors")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the actor with the given id. Deleting a non-existent actor
// is not an error.
func (a *ActorStore) Delete(ctx context.Context, id string) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	if _, err := a.store.db.ExecContext(ctx, "DELETE FROM actors WHERE id = ?", id); err != nil {
		return apperr.StorageFailure("deleting actor", err)
	}
	return nil
}

// Exists reports whether an actor with the given id is stored.
func (a *ActorStore) Exists(ctx context.Context, id string) (bool, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	var one int
	err := a.store.db.QueryRowContext(ctx, "SELECT 1 FROM actors WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperr.StorageFailure("checking actor existence", err)
	}
	return true, nil
}

package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
	"github.com/Guillaumecoi/usecasemgr/internal/fuzzy"
)

const timeLayout = time.RFC3339

// saveUseCase upserts uc and all of its child rows within exec (a *sql.Tx),
// preserving created_at if a prior row exists.
func saveUseCase(ctx context.Context, exec execer, uc *domain.UseCase) error {
	if err := uc.Validate(); err != nil {
		return err
	}

	var existingCreatedAt sql.NullString
	err := exec.QueryRowContext(ctx, "SELECT created_at FROM use_cases WHERE id = ?", uc.ID).Scan(&existingCreatedAt)
	switch {
	case err == nil:
		if t, perr := time.Parse(timeLayout, existingCreatedAt.String); perr == nil {
			uc.Metadata.CreatedAt = t
		}
	case err == sql.ErrNoRows:
		// first save: keep uc.Metadata.CreatedAt as constructed.
	default:
		return apperr.StorageFailure("checking existing use case", err)
	}
	uc.Touch()

	viewsJSON, err := json.Marshal(uc.Views)
	if err != nil {
		return apperr.StorageFailure("encoding views", err)
	}
	fieldsJSON, err := json.Marshal(uc.MethodologyFields)
	if err != nil {
		return apperr.StorageFailure("encoding methodology fields", err)
	}
	extraJSON, err := json.Marshal(uc.Extra)
	if err != nil {
		return apperr.StorageFailure("encoding extra", err)
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO use_cases (id, title, category, description, priority, created_at, updated_at, views_json, methodology_fields_json, extra_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, category = excluded.category, description = excluded.description,
			priority = excluded.priority, updated_at = excluded.updated_at,
			views_json = excluded.views_json, methodology_fields_json = excluded.methodology_fields_json,
			extra_json = excluded.extra_json`,
		uc.ID, uc.Title, uc.Category, uc.Description, string(uc.Priority),
		uc.Metadata.CreatedAt.Format(timeLayout), uc.Metadata.UpdatedAt.Format(timeLayout),
		string(viewsJSON), string(fieldsJSON), string(extraJSON))
	if err != nil {
		return apperr.StorageFailure("upserting use case", err)
	}

	if _, err := exec.ExecContext(ctx, "DELETE FROM use_case_preconditions WHERE use_case_id = ?", uc.ID); err != nil {
		return apperr.StorageFailure("clearing preconditions", err)
	}
	for i, text := range uc.Preconditions {
		if _, err := exec.ExecContext(ctx,
			"INSERT INTO use_case_preconditions (use_case_id, condition_order, condition_text) VALUES (?, ?, ?)",
			uc.ID, i+1, text); err != nil {
			return apperr.StorageFailure("inserting precondition", err)
		}
	}

	if _, err := exec.ExecContext(ctx, "DELETE FROM use_case_postconditions WHERE use_case_id = ?", uc.ID); err != nil {
		return apperr.StorageFailure("clearing postconditions", err)
	}
	for i, text := range uc.Postconditions {
		if _, err := exec.ExecContext(ctx,
			"INSERT INTO use_case_postconditions (use_case_id, condition_order, condition_text) VALUES (?, ?, ?)",
			uc.ID, i+1, text); err != nil {
			return apperr.StorageFailure("inserting postcondition", err)
		}
	}

	if _, err := exec.ExecContext(ctx, "DELETE FROM use_case_references WHERE use_case_id = ?", uc.ID); err != nil {
		return apperr.StorageFailure("clearing use case references", err)
	}
	for _, ref := range uc.UseCaseReferences {
		if _, err := exec.ExecContext(ctx,
			"INSERT INTO use_case_references (use_case_id, target_id, relationship, description) VALUES (?, ?, ?, ?)",
			uc.ID, ref.TargetID, ref.Relationship, ref.Description); err != nil {
			return apperr.StorageFailure("inserting use case reference", err)
		}
	}

	if _, err := exec.ExecContext(ctx, "DELETE FROM scenarios WHERE use_case_id = ?", uc.ID); err != nil {
		return apperr.StorageFailure("clearing scenarios", err)
	}
	for _, sc := range uc.Scenarios {
		if err := saveScenario(ctx, exec, uc.ID, sc); err != nil {
			return err
		}
	}

	return nil
}

func saveScenario(ctx context.Context, exec execer, useCaseID string, sc domain.Scenario) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO scenarios (id, use_case_id, title, description, scenario_type, status, persona)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, useCaseID, sc.Title, sc.Description, string(sc.ScenarioType), string(sc.Status), sc.Persona)
	if err != nil {
		return apperr.StorageFailure("inserting scenario", err)
	}

	for _, step := range sc.Steps {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO scenario_steps (scenario_id, step_order, actor, receiver, action, description, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sc.ID, step.Order, step.Actor, step.Receiver, step.Action, step.Description, step.Notes); err != nil {
			return apperr.StorageFailure("inserting scenario step", err)
		}
	}
	for i, c := range sc.Preconditions {
		if err := insertScenarioCondition(ctx, exec, "scenario_preconditions", sc.ID, i+1, c); err != nil {
			return err
		}
	}
	for i, c := range sc.Postconditions {
		if err := insertScenarioCondition(ctx, exec, "scenario_postconditions", sc.ID, i+1, c); err != nil {
			return err
		}
	}
	for _, ref := range sc.References {
		if _, err := exec.ExecContext(ctx, `
			INSERT INTO scenario_references (scenario_id, ref_type, target_id, relationship, description)
			VALUES (?, ?, ?, ?, ?)`,
			sc.ID, string(ref.RefType), ref.TargetID, ref.Relationship, ref.Description); err != nil {
			return apperr.StorageFailure("inserting scenario reference", err)
		}
	}
	return nil
}

func insertScenarioCondition(ctx context.Context, exec execer, table, scenarioID string, order int, c domain.Condition) error {
	_, err := exec.ExecContext(ctx,
		"INSERT INTO "+table+" (scenario_id, condition_order, condition_text, target_id, target_type) VALUES (?, ?, ?, ?, ?)",
		scenarioID, order, c.Text, nullableString(c.TargetID), nullableString(c.TargetType))
	if err != nil {
		return apperr.StorageFailure("inserting scenario condition", err)
	}
	return nil
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func loadUseCaseByID(ctx context.Context, exec execer, id string) (*domain.UseCase, error) {
	row := exec.QueryRowContext(ctx, `
		SELECT id, title, category, description, priority, created_at, updated_at, views_json, methodology_fields_json, extra_json
		FROM use_cases WHERE id = ?`, id)

	uc, err := scanUseCase(row)
	if err == sql.ErrNoRows {
		allIDs, _ := queryAllIDs(ctx, exec)
		return nil, apperr.NotFound("use case", id, fuzzy.ClosestMatches(id, allIDs, 3))
	}
	if err != nil {
		return nil, apperr.StorageFailure("loading use case", err)
	}

	if err := loadChildren(ctx, exec, uc); err != nil {
		return nil, err
	}
	return uc, nil
}

func queryAllIDs(ctx context.Context, exec execer) ([]string, error) {
	rows, err := exec.QueryContext(ctx, "SELECT id FROM use_cases")
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

func scanUseCase(row *sql.Row) (*domain.UseCase, error) {
	var uc domain.UseCase
	var priority, createdAt, updatedAt, viewsJSON, fieldsJSON, extraJSON string

	if err := row.Scan(&uc.ID, &uc.Title, &uc.Category, &uc.Description, &priority,
		&createdAt, &updatedAt, &viewsJSON, &fieldsJSON, &extraJSON); err != nil {
		return nil, err
	}

	uc.Priority = domain.Priority(priority)
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		uc.Metadata.CreatedAt = t
	}
	if t, err := time.Parse(timeLayout, updatedAt); err == nil {
		uc.Metadata.UpdatedAt = t
	}
	if err := json.Unmarshal([]byte(viewsJSON), &uc.Views); err != nil {
		return nil, err
	}
	uc.MethodologyFields = map[string]map[string]any{}
	if err := json.Unmarshal([]byte(fieldsJSON), &uc.MethodologyFields); err != nil {
		return nil, err
	}
	uc.Extra = map[string]any{}
	if err := json.Unmarshal([]byte(extraJSON), &uc.Extra); err != nil {
		return nil, err
	}
	return &uc, nil
}

func loadChildren(ctx context.Context, exec execer, uc *domain.UseCase) error {
	var err error
	if uc.Preconditions, err = loadOrderedTexts(ctx, exec, "use_case_preconditions", "use_case_id", uc.ID); err != nil {
		return err
	}
	if uc.Postconditions, err = loadOrderedTexts(ctx, exec, "use_case_postconditions", "use_case_id", uc.ID); err != nil {
		return err
	}

	rows, err := exec.QueryContext(ctx,
		"SELECT target_id, relationship, description FROM use_case_references WHERE use_case_id = ?", uc.ID)
	if err != nil {
		return apperr.StorageFailure("loading use case references", err)
	}
	for rows.Next() {
		var ref domain.UseCaseReference
		if err := rows.Scan(&ref.TargetID, &ref.Relationship, &ref.Description); err != nil {
			rows.Close()
			return apperr.StorageFailure("scanning use case reference", err)
		}
		uc.UseCaseReferences = append(uc.UseCaseReferences, ref)
	}
	rows.Close()

	scRows, err := exec.QueryContext(ctx,
		"SELECT id, title, description, scenario_type, status, persona FROM scenarios WHERE use_case_id = ? ORDER BY id", uc.ID)
	if err != nil {
		return apperr.StorageFailure("loading scenarios", err)
	}
	var scenarioIDs []string
	for scRows.Next() {
		var sc domain.Scenario
		var scenarioType, status string
		if err := scRows.Scan(&sc.ID, &sc.Title, &sc.Description, &scenarioType, &status, &sc.Persona); err != nil {
			scRows.Close()
			return apperr.StorageFailure("scanning scenario", err)
		}
		sc.ScenarioType = domain.ScenarioType(scenarioType)
		sc.Status = domain.Status(status)
		uc.Scenarios = append(uc.Scenarios, sc)
		scenarioIDs = append(scenarioIDs, sc.ID)
	}
	scRows.Close()

	for i := range uc.Scenarios {
		if err := loadScenarioChildren(ctx, exec, &uc.Scenarios[i]); err != nil {
			return err
		}
	}
	return nil
}

func loadOrderedTexts(ctx context.Context, exec execer, table, fkCol, id string) ([]string, error) {
	rows, err := exec.QueryContext(ctx,
		"SELECT condition_text FROM "+table+" WHERE "+fkCol+" = ? ORDER BY condition_order", id)
	if err != nil {
		return nil, apperr.StorageFailure("loading "+table, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, apperr.StorageFailure("scanning "+table, err)
		}
		out = append(out, text)
	}
	return out, nil
}

func loadScenarioChildren(ctx context.Context, exec execer, sc *domain.Scenario) error {
	stepRows, err := exec.QueryContext(ctx,
		"SELECT step_order, actor, receiver, action, description, notes FROM scenario_steps WHERE scenario_id = ? ORDER BY step_order",
		sc.ID)
	if err != nil {
		return apperr.StorageFailure("loading scenario steps", err)
	}
	for stepRows.Next() {
		var step domain.Step
		if err := stepRows.Scan(&step.Order, &step.Actor, &step.Receiver, &step.Action, &step.Description, &step.Notes); err != nil {
			stepRows.Close()
			return apperr.StorageFailure("scanning scenario step", err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	stepRows.Close()
	sort.Slice(sc.Steps, func(i, j int) bool { return sc.Steps[i].Order < sc.Steps[j].Order })

	var err2 error
	if sc.Preconditions, err2 = loadScenarioConditions(ctx, exec, "scenario_preconditions", sc.ID); err2 != nil {
		return err2
	}
	if sc.Postconditions, err2 = loadScenarioConditions(ctx, exec, "scenario_postconditions", sc.ID); err2 != nil {
		return err2
	}

	refRows, err := exec.QueryContext(ctx,
		"SELECT ref_type, target_id, relationship, description FROM scenario_references WHERE scenario_id = ?", sc.ID)
	if err != nil {
		return apperr.StorageFailure("loading scenario references", err)
	}
	for refRows.Next() {
		var ref domain.ScenarioReference
		var refType string
		if err := refRows.Scan(&refType, &ref.TargetID, &ref.Relationship, &ref.Description); err != nil {
			refRows.Close()
			return apperr.StorageFailure("scanning scenario reference", err)
		}
		ref.RefType = domain.ReferenceType(refType)
		sc.References = append(sc.References, ref)
	}
	refRows.Close()
	return nil
}

func loadScenarioConditions(ctx context.Context, exec execer, table, scenarioID string) ([]domain.Condition, error) {
	rows, err := exec.QueryContext(ctx,
		"SELECT condition_text, target_id, target_type FROM "+table+" WHERE scenario_id = ? ORDER BY condition_order",
		scenarioID)
	if err != nil {
		return nil, apperr.StorageFailure("loading "+table, err)
	}
	defer rows.Close()
	var out []domain.Condition
	for rows.Next() {
		var c domain.Condition
		var targetID, targetType sql.NullString
		if err := rows.Scan(&c.Text, &targetID, &targetType); err != nil {
			return nil, apperr.StorageFailure("scanning "+table, err)
		}
		if targetID.Valid {
			v := targetID.String
			c.TargetID = &v
		}
		if targetType.Valid {
			v := targetType.String
			c.TargetType = &v
		}
		out = append(out, c)
	}
	return out, nil
}

func loadAllUseCases(ctx context.Context, exec execer) ([]*domain.UseCase, error) {
	ids, err := queryAllIDs(ctx, exec)
	if err != nil {
		return nil, apperr.StorageFailure("listing use cases", err)
	}
	sort.Strings(ids)
	out := make([]*domain.UseCase, 0, len(ids))
	for _, id := range ids {
		uc, err := loadUseCaseByID(ctx, exec, id)
		if err != nil {
			return nil, err
		}
		out = append(out, uc)
	}
	return out, nil
}

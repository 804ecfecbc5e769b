package cases

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	ListCases(ctx context.Context) ([]*Case, error)
	GetCase(ctx context.Context, id string) (*Case, error)
	GetPlaceholder(ctx context.Context) (*Case, error)
	UpsertCase(ctx context.Context, c *Case) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const caseColumns = `id, subject, dob, sex, affection, mother_id, father_id, family_id, family_type,
	sample_submitted_id, sample_index_id, sample_dna_source, sample_platform, sample_predicted_ancestry,
	video, score_ados, score_adi, score_vineland, placeholder, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (*Case, error) {
	var c Case
	var ados, adi, vineland sql.NullFloat64
	var placeholder int
	var createdAt string

	err := row.Scan(&c.ID, &c.Subject, &c.DOB, &c.Sex, &c.Affection, &c.MotherID, &c.FatherID, &c.FamilyID, &c.FamilyType,
		&c.Sample.SubmittedID, &c.Sample.IndexID, &c.Sample.DNASource, &c.Sample.Platform, &c.Sample.PredictedAncestry,
		&c.Video, &ados, &adi, &vineland, &placeholder, &createdAt)
	if err != nil {
		return nil, err
	}

	c.Scores = Scores{
		ADOS:     floatPtr(ados),
		ADI:      floatPtr(adi),
		Vineland: floatPtr(vineland),
	}
	c.Placeholder = placeholder == 1
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (r *SQLiteRepository) ListCases(ctx context.Context) ([]*Case, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (r *SQLiteRepository) GetCase(ctx context.Context, id string) (*Case, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// GetPlaceholder returns the oldest record flagged as placeholder.
func (r *SQLiteRepository) GetPlaceholder(ctx context.Context) (*Case, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE placeholder = 1 ORDER BY created_at ASC LIMIT 1`)
	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// UpsertCase inserts or updates c. An existing placeholder flag is never
// cleared.
func (r *SQLiteRepository) UpsertCase(ctx context.Context, c *Case) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			subject = excluded.subject,
			dob = excluded.dob,
			sex = excluded.sex,
			affection = excluded.affection,
			mother_id = excluded.mother_id,
			father_id = excluded.father_id,
			family_id = excluded.family_id,
			family_type = excluded.family_type,
			sample_submitted_id = excluded.sample_submitted_id,
			sample_index_id = excluded.sample_index_id,
			sample_dna_source = excluded.sample_dna_source,
			sample_platform = excluded.sample_platform,
			sample_predicted_ancestry = excluded.sample_predicted_ancestry,
			video = excluded.video,
			score_ados = excluded.score_ados,
			score_adi = excluded.score_adi,
			score_vineland = excluded.score_vineland,
			placeholder = max(placeholder, excluded.placeholder)
	`, c.ID, c.Subject, c.DOB, c.Sex, c.Affection, c.MotherID, c.FatherID, c.FamilyID, c.FamilyType,
		c.Sample.SubmittedID, c.Sample.IndexID, c.Sample.DNASource, c.Sample.Platform, c.Sample.PredictedAncestry,
		c.Video, nullFloat(c.Scores.ADOS), nullFloat(c.Scores.ADI), nullFloat(c.Scores.Vineland),
		boolToInt(c.Placeholder), createdAt.UTC().Format(time.RFC3339))
	return err
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

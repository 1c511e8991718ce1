package database

import (
	"context"
	"fmt"
	"time"

	"go-jobscraper/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- JOB WRITES ----------------

// SaveJobs inserts the scraped listings, skipping rows already present
// for the same source+job id. Returns the number actually inserted.
func (r *Repository) SaveJobs(ctx context.Context, jobs []models.Job) (int, error) {
	saved := 0
	for _, job := range jobs {
		query := `
			INSERT INTO jobs (id, name, description, company_name, location, work_type,
			                  salary_description, date_posted, date_scraped, source,
			                  job_class, job_subclass, other, remark)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (source, id) DO NOTHING`

		tag, err := r.db.Exec(ctx, query,
			job.ID, job.Title, job.Description, job.Company, job.Location, job.WorkType,
			job.SalaryDescription, job.DatePosted, job.DateScraped, job.Source,
			job.JobClass, job.JobSubclass, job.Other, job.Remark)
		if err != nil {
			return saved, fmt.Errorf("failed to save job %s: %w", job.ID, err)
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}

// updateJobField is the shared single-row setter. Returns false (not an
// error) when the job id does not exist, matching the selection
// contract: unknown ids are a per-job failure, never a crash.
func (r *Repository) updateJobField(ctx context.Context, column, jobID, value string) (bool, error) {
	query := fmt.Sprintf("UPDATE jobs SET %s = $1 WHERE id = $2", column)
	tag, err := r.db.Exec(ctx, query, value, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to update %s for job %s: %w", column, jobID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) UpdateJobDescription(ctx context.Context, jobID, description string) (bool, error) {
	return r.updateJobField(ctx, "description", jobID, description)
}

func (r *Repository) UpdateJobTitle(ctx context.Context, jobID, title string) (bool, error) {
	return r.updateJobField(ctx, "name", jobID, title)
}

func (r *Repository) UpdateJobCompany(ctx context.Context, jobID, company string) (bool, error) {
	return r.updateJobField(ctx, "company_name", jobID, company)
}

func (r *Repository) UpdateJobClass(ctx context.Context, jobID, jobClass string) (bool, error) {
	return r.updateJobField(ctx, "job_class", jobID, jobClass)
}

// ---------------- JOB READS ----------------

func (r *Repository) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	query := `
		SELECT internal_id, id, name, description, company_name, location, work_type,
		       salary_description, date_posted, date_scraped, source,
		       job_class, job_subclass, other, remark
		FROM jobs WHERE id = $1`

	err := r.db.QueryRow(ctx, query, jobID).
		Scan(&job.InternalID, &job.ID, &job.Title, &job.Description, &job.Company,
			&job.Location, &job.WorkType, &job.SalaryDescription, &job.DatePosted,
			&job.DateScraped, &job.Source, &job.JobClass, &job.JobSubclass,
			&job.Other, &job.Remark)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("job %s not found", jobID)
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return &job, nil
}

// ExistingJobIDs returns every source+id key already stored, for the
// search-side dedup cache.
func (r *Repository) ExistingJobIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT source, id FROM jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to list existing job ids: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var source, id string
		if err := rows.Scan(&source, &id); err != nil {
			return nil, fmt.Errorf("failed to scan job id row: %w", err)
		}
		keys = append(keys, source+"/"+id)
	}
	return keys, rows.Err()
}

// JobIDsByInternalIDRange returns job ids whose serial internal id falls
// in [startID, endID], oldest first.
func (r *Repository) JobIDsByInternalIDRange(ctx context.Context, startID, endID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id FROM jobs WHERE internal_id BETWEEN $1 AND $2 ORDER BY internal_id",
		startID, endID)
	if err != nil {
		return nil, fmt.Errorf("failed to select job ids in range %d-%d: %w", startID, endID, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// JobIDsMissingDescription returns the most recent job ids whose
// description has never been filled in. Sentinel values count as filled:
// a job marked "N/A" or "Error: ..." was already attempted and is only
// retried by an explicit range run.
func (r *Repository) JobIDsMissingDescription(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM jobs
		 WHERE description IS NULL OR description = ''
		 ORDER BY internal_id DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select jobs missing descriptions: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Command seed imports historical ideas from a CSV export into the portal
// database, creating missing submitter accounts along the way.
package main

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/gocool94/innnov-prod/internal/config"
	"github.com/gocool94/innnov-prod/internal/models"
)

// defaultPassword is the placeholder credential for imported accounts. Users
// are expected to have it rotated before the portal goes live.
const defaultPassword = "password123"

func main() {
	csvPath := flag.String("csv", "Ideas.csv", "path to the ideas CSV export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to reach database: %v", err)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Fatalf("Failed to read CSV header: %v", err)
	}
	cols := columnIndex(header)

	imported := 0
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}

		email := strings.ToLower(strings.TrimSpace(field(row, cols, "Idea Submitter")))
		if email == "" {
			continue
		}

		name, err := ensureUser(db, email)
		if err != nil {
			log.Fatalf("Failed to ensure user %s: %v", email, err)
		}

		if err := insertIdea(db, name, email, row, cols); err != nil {
			log.Fatalf("Failed to insert idea for %s: %v", email, err)
		}
		imported++
	}

	log.Printf("Imported %d ideas from %s", imported, *csvPath)
}

// columnIndex maps header names to positions so column order in the export
// does not matter.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ensureUser creates an account for the email when none exists and returns
// the display name on record.
func ensureUser(db *sql.DB, email string) (string, error) {
	var name string
	err := db.QueryRow(`SELECT name FROM users WHERE email = $1`, email).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	name = displayName(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO users (email, name, password_hash, beans, is_reviewer, is_admin,
			review_count, submitted_ideas, review_ideas, created_at, updated_at)
		VALUES ($1, $2, $3, 0, false, false, 0, '[]', '[]', $4, $4)`,
		email, name, string(hash), now,
	)
	if err != nil {
		return "", err
	}

	log.Printf("New user created: %s", email)
	return name, nil
}

func insertIdea(db *sql.DB, name, email string, row []string, cols map[string]int) error {
	ideaID := uuid.New()
	status := importStatus(field(row, cols, "Status and ETA"))

	categories, err := listJSON(field(row, cols, "Idea Category"))
	if err != nil {
		return err
	}
	tools, err := listJSON(field(row, cols, "Tool/Technology"))
	if err != nil {
		return err
	}
	contributors, err := listJSON(field(row, cols, "Contributors"))
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO ideas (id, submitter_name, submitter_email, title, description,
			value_add, categories, tools_technologies, primary_beneficiaries,
			contributors, complexity, resource_link, status, comments,
			beans_awarded, date_submitted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]', $9, '', $10, $11, '', $12, $13, $13)`,
		ideaID, name, email,
		field(row, cols, "Idea Title"),
		field(row, cols, "Idea Description"),
		field(row, cols, "Value Add in words"),
		categories, tools, contributors,
		field(row, cols, "Google Drive link to resources"),
		string(status),
		models.SubmissionBeans,
		now,
	)
	if err != nil {
		return err
	}

	// Keep the submitter's idea list and bean total in step with the insert.
	_, err = db.Exec(`
		UPDATE users
		SET submitted_ideas = (submitted_ideas::jsonb || to_jsonb($1::text))::text,
			beans = beans + $2,
			updated_at = $3
		WHERE email = $4`,
		ideaID.String(), models.SubmissionBeans, now, email,
	)
	if err != nil {
		return err
	}

	log.Printf("Idea inserted: %s", field(row, cols, "Idea Title"))
	return nil
}

// importStatus keeps free-form statuses from the export as-is; the progress
// bar renders unknown values at the first step. Blank cells start the
// lifecycle at Submitted.
func importStatus(raw string) models.IdeaStatus {
	if raw == "" {
		return models.StatusSubmitted
	}
	return models.IdeaStatus(raw)
}

// listJSON wraps a single CSV cell in a one-element JSON list, matching how
// the API stores multi-value fields.
func listJSON(value string) (string, error) {
	list := models.StringList{}
	if value != "" {
		list = append(list, value)
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(encoded), nil
}

// displayName derives a default account name from the email local part.
func displayName(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	if local == "" {
		return email
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

package db

import (
	"database/sql"
	"errors"

	_ "github.com/mattn/go-sqlite3"

	"salespredict/ml"
)

var database *sql.DB

// InitDB initializes the SQLite database used by the training workflow.
// The serving path never touches it.
func InitDB(path string) error {
	var err error
	database, err = sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS samples (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        experience_months REAL NOT NULL,
        number_of_sales REAL NOT NULL,
        seasonal_factor REAL NOT NULL,
        revenue REAL NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS training_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        algorithm VARCHAR(20) NOT NULL,
        degree INTEGER NOT NULL,
        version VARCHAR(40),
        mse REAL,
        rmse REAL,
        mae REAL,
        r2 REAL,
        data_points INTEGER,
        trained_at DATETIME NOT NULL
    );
    `

	_, err = database.Exec(query)
	return err
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// SaveSamples stores training samples in a single transaction.
func SaveSamples(samples []ml.Sample) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
        INSERT INTO samples (experience_months, number_of_sales, seasonal_factor, revenue)
        VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(s.ExperienceMonths, s.NumberOfSales, s.SeasonalFactor, s.Revenue); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// QuerySamples returns up to limit samples, oldest first.
func QuerySamples(limit int) ([]ml.Sample, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}

	rows, err := database.Query(`
        SELECT experience_months, number_of_sales, seasonal_factor, revenue
        FROM samples
        ORDER BY id ASC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []ml.Sample
	for rows.Next() {
		var s ml.Sample
		if err := rows.Scan(&s.ExperienceMonths, &s.NumberOfSales, &s.SeasonalFactor, &s.Revenue); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// LogTraining records a training run and its holdout metrics.
func LogTraining(artifact *ml.ModelArtifact, metrics ml.EvaluationMetrics, dataPoints int) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	_, err := database.Exec(`
        INSERT INTO training_log (algorithm, degree, version, mse, rmse, mae, r2, data_points, trained_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		artifact.Algorithm,
		artifact.Degree,
		artifact.Version,
		metrics.MSE,
		metrics.RMSE,
		metrics.MAE,
		metrics.R2,
		dataPoints,
		artifact.TrainedAt,
	)
	return err
}

// Command train fits a sales revenue model from a CSV of historical records
// and writes the serving artifact.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespredict/dataset"
	"salespredict/db"
	"salespredict/ml"
)

func main() {
	dataPath := flag.String("data", "data/sales.csv", "CSV file with training records")
	dbPath := flag.String("db", "", "optional SQLite database for samples and the training log")
	algorithm := flag.String("algorithm", ml.AlgorithmPolynomial, "model family: linear or polynomial")
	degree := flag.Int("degree", 2, "polynomial degree")
	out := flag.String("out", "models/sales_model.json", "output artifact path")
	testRatio := flag.Float64("test_ratio", 0.2, "fraction of samples held out for evaluation")
	version := flag.String("version", "", "artifact version label")
	flag.Parse()

	records, err := dataset.LoadCSV(*dataPath)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	log.Printf("loaded %d records from %s", len(records), *dataPath)

	cleaner := dataset.NewCleaner()
	cleaned, issues := cleaner.Clean(records)
	for _, issue := range issues {
		log.Printf("dropped line %d (%s): %s", issue.Line, issue.Rule, issue.Message)
	}
	stats := cleaner.Stats()
	log.Printf("cleaning: %d passed, %d rejected", stats.Passed, stats.Rejected)

	samples := dataset.ToSamples(cleaned)

	if *dbPath != "" {
		if err := db.InitDB(*dbPath); err != nil {
			log.Fatalf("init db: %v", err)
		}
		defer db.Close()
		if err := db.SaveSamples(samples); err != nil {
			log.Fatalf("save samples: %v", err)
		}
	}

	train, holdout := splitSamples(samples, *testRatio)
	log.Printf("training on %d samples, evaluating on %d", len(train), len(holdout))

	artifact, err := ml.Train(train, ml.TrainOptions{
		Algorithm: *algorithm,
		Degree:    *degree,
		Version:   *version,
	})
	if err != nil {
		log.Fatalf("train: %v", err)
	}

	metrics := ml.EvaluationMetrics{R2: artifact.R2}
	if len(holdout) > 0 {
		metrics, err = ml.EvaluateHoldout(artifact, holdout)
		if err != nil {
			log.Fatalf("evaluate: %v", err)
		}
	}
	log.Printf("metrics: MSE=%.4f RMSE=%.4f MAE=%.4f R2=%.4f (%s)",
		metrics.MSE, metrics.RMSE, metrics.MAE, metrics.R2, ml.InterpretR2(metrics.R2))

	if *dbPath != "" {
		if err := db.LogTraining(artifact, metrics, len(samples)); err != nil {
			log.Fatalf("log training run: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	if err := artifact.Save(*out); err != nil {
		log.Fatalf("save artifact: %v", err)
	}
	log.Printf("artifact written to %s", *out)

	printExample(artifact)
}

// splitSamples shuffles and partitions the samples into train and holdout
// sets.
func splitSamples(samples []ml.Sample, testRatio float64) ([]ml.Sample, []ml.Sample) {
	if testRatio <= 0 || testRatio >= 1 {
		return samples, nil
	}
	shuffled := make([]ml.Sample, len(samples))
	copy(shuffled, samples)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := len(shuffled) - int(float64(len(shuffled))*testRatio)
	if cut <= 0 || cut >= len(shuffled) {
		return shuffled, nil
	}
	return shuffled[:cut], shuffled[cut:]
}

// printExample runs one prediction through the freshly trained artifact so
// the output can be eyeballed against known revenue figures.
func printExample(artifact *ml.ModelArtifact) {
	engine := ml.NewEngine()
	features := ml.FeatureVector{ExperienceMonths: 36, NumberOfSales: 50, SeasonalFactor: 7}
	estimate, confidence, err := engine.Predict(artifact, features)
	if err != nil {
		log.Printf("example prediction failed: %v", err)
		return
	}
	p := message.NewPrinter(language.BrazilianPortuguese)
	p.Printf("example: 36 months experience, 50 sales, seasonal factor 7 -> R$ %.2f (confidence %.2f)\n",
		estimate, confidence)
}

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"carprice/app"
)

func main() {
	_ = godotenv.Load()

	csvPath := flag.String("csv", "", "Path to CSV or Excel file with car data (required)")
	target := flag.String("target", "price", "Target column")
	testSize := flag.Float64("test-size", 0.3, "Test size ratio")
	currencyRate := flag.Float64("currency-rate", 1.0, "Multiplier applied to the target to normalize currency")
	outModel := flag.String("out-model", "models/rf_model.gob", "Output path for the saved pipeline")
	outMeta := flag.String("out-meta", "models/metadata.json", "Output path for the metadata JSON")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		log.Fatal("--csv is required")
	}

	trainer := app.NewTrainingService()
	meta, err := trainer.Train(app.TrainParams{
		DataPath:     *csvPath,
		Target:       *target,
		TestFraction: *testSize,
		CurrencyRate: *currencyRate,
		ModelOut:     *outModel,
		MetaOut:      *outMeta,
	})
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	fmt.Printf("RMSE: %.4f\nMAE: %.4f\nR2: %.4f\n", meta.Metrics.RMSE, meta.Metrics.MAE, meta.Metrics.R2)
	fmt.Printf("Model saved to: %s\n", *outModel)
	fmt.Printf("Metadata saved to: %s\n", *outMeta)
}

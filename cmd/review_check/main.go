package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/app"
	"github.com/Neuralic/Tinder-AI/internal/config"
	"github.com/Neuralic/Tinder-AI/internal/domain"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Scenario combina una foto con los datos que el usuario enviaria.
type Scenario struct {
	Name    string
	Request domain.ProfileRequest
}

var baseScenarios = []domain.ProfileRequest{
	{Name: "Sam", Age: "29", Goals: "casual dating", Confidence: "6"},
	{Name: "Riya", Age: "34", Gender: "female", Goals: "long-term relationship", Confidence: "3"},
	{},
}

func main() {
	dir := flag.String("dir", "testdata/photos", "directory with profile photos")
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer components.Close()

	scenarios, err := loadScenarios(*dir)
	if err != nil {
		log.Fatal(err)
	}
	if len(scenarios) == 0 {
		log.Fatalf("no photos found in %s", *dir)
	}

	var totalTone, totalSpec, structural, judged int
	for _, sc := range scenarios {
		fmt.Printf("%s[Scenario]%s %s\n", colorCyan, colorReset, sc.Name)

		review, err := components.Profiles.Run(ctx, sc.Request)
		if err != nil {
			fmt.Printf("%s[error]%s %v\n\n", colorRed, colorReset, err)
			continue
		}
		fmt.Printf("%s[Review]%s\n%s\n", colorGreen, colorReset, review.Feedback)

		rep := checkStructure(review.Feedback)
		if rep.ok() {
			structural++
		}
		fmt.Printf("Structure: missing=%v out_of_order=%t match_score=%d negative=%v\n",
			rep.Missing, rep.OutOfOrder, rep.MatchScore, rep.Negative)

		jr, err := evaluateReview(ctx, components.LLM, describe(sc.Request), review.Feedback, rep)
		if err != nil {
			fmt.Printf("%s[judge failed]%s %v\n\n", colorRed, colorReset, err)
			continue
		}
		judged++
		totalTone += jr.ToneScore
		totalSpec += jr.SpecificityScore
		fmt.Printf("%sJudge%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Tone %d/5 | Specificity %d/5\n\n", jr.ToneScore, jr.SpecificityScore)
	}

	fmt.Println("==== Summary ====")
	fmt.Printf("Structurally valid: %d/%d\n", structural, len(scenarios))
	if judged > 0 {
		fmt.Printf("Tone: %.2f/5 | Specificity: %.2f/5\n",
			float64(totalTone)/float64(judged), float64(totalSpec)/float64(judged))
	}
}

// loadScenarios cruza cada foto del directorio con los perfiles base.
func loadScenarios(dir string) ([]Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Scenario
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif":
		default:
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		img := base64.StdEncoding.EncodeToString(raw)
		for i, base := range baseScenarios {
			req := base
			req.Image = img
			out = append(out, Scenario{Name: fmt.Sprintf("%s #%d", e.Name(), i+1), Request: req})
		}
	}
	return out, nil
}

func describe(req domain.ProfileRequest) string {
	parts := []string{}
	for _, kv := range [][2]string{{"name", req.Name}, {"age", req.Age}, {"gender", req.Gender}, {"goals", req.Goals}, {"confidence", req.Confidence}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return "no details shared"
	}
	return strings.Join(parts, ", ")
}

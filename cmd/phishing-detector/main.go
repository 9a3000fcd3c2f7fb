package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/di"
)

var (
	inputFile = flag.String("file", "", "Input email file (use stdin if not specified)")
)

func main() {
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	service *core.PhishingDetectorService,
	adviser core.AdviceGenerator,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Stop the cache cleanup task on the way out
	defer func() {
		if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
			stopper.Stop()
		}
	}()

	// Load the trained artifact; analysis cannot run without one
	if err := service.LoadArtifact(); err != nil {
		logger.Fatal("Failed to load trained model (run the trainer first)", zap.Error(err))
		return err
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
			return err
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
		return err
	}

	sender := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")
	if addr, err := mail.ParseAddress(sender); err == nil {
		sender = addr.Address
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
		return err
	}
	body := string(bodyBytes)

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", sender)
	fmt.Printf("Subject: %s\n", subject)
	fmt.Printf("Body length: %d bytes\n", len(body))
	fmt.Printf("\n")

	startTime := time.Now()
	report, err := service.Predict(context.Background(), subject, body, sender)
	if err != nil {
		logger.Fatal("Failed to analyze email", zap.Error(err))
		return err
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("=== Results ===\n")
	fmt.Printf("Is phishing: %t\n", report.IsPhishing)
	fmt.Printf("Phishing probability: %.4f\n", report.PhishingProbability)
	fmt.Printf("Confidence: %.4f\n", report.Confidence)
	fmt.Printf("Model used: %s\n", report.ModelUsed)
	fmt.Printf("Urgency score: %d\n", report.UrgencyScore)
	fmt.Printf("Grammar quality: %s\n", report.GrammarQuality)
	fmt.Printf("Personal info requests: %t\n", report.PersonalInfoRequests)
	fmt.Printf("Suspicious keywords: %s\n", strings.Join(report.SuspiciousKeywordsList, ", "))
	fmt.Printf("URLs found: %d (%d suspicious)\n", report.TotalURLsFound, report.SuspiciousURLsCount)
	fmt.Printf("Domain reputation: %s\n", report.DomainReputation)
	fmt.Printf("Spoofing risk: %s\n", report.SpoofingRisk)
	fmt.Printf("Processing time: %v\n", duration)

	// Print advice
	fmt.Printf("\n=== Advice ===\n")
	for _, item := range adviser.Advise(report) {
		fmt.Printf("- %s\n", item)
	}

	return nil
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

type createOrderRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PhoneNumber string  `json:"phoneNumber"`
}

func main() {
	var (
		url      = flag.String("url", "http://localhost:8081/orders", "create-order endpoint")
		rate     = flag.Int("rate", 10, "requests per second")
		duration = flag.Duration("duration", 30*time.Second, "how long to run")
		token    = flag.String("token", "loadgen-token", "Authentication cookie value")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	var sent, failed atomic.Int64
	start := time.Now()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			go func() {
				if err := post(ctx, client, *url, *token); err != nil {
					failed.Add(1)
					log.Printf("post: %v", err)
					return
				}
				sent.Add(1)
			}()
		}
	}

	elapsed := time.Since(start)
	log.Printf("done: sent=%d failed=%d in %s (%.1f rps)",
		sent.Load(), failed.Load(), elapsed.Round(time.Millisecond),
		float64(sent.Load())/elapsed.Seconds())
}

func post(ctx context.Context, client *http.Client, url, token string) error {
	body, err := json.Marshal(createOrderRequest{
		Name:        gofakeit.ProductName(),
		Price:       gofakeit.Price(1, 500),
		PhoneNumber: "+1" + gofakeit.Numerify("##########"),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "Authentication", Value: token})

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

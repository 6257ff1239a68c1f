// Command leadctl submits a lead form to a running relay from the terminal.
//
// Usage:
//
//	leadctl [--api=URL] [--timeout=30s] call --name=Иван --phone=89016450000 [--time=...] [--question=...]
//	leadctl [--api=URL] [--timeout=30s] calc --material=sand --volume=2 --address="ул. Ленина 1" --phone=+79016450000 [--name=...]
//	leadctl events --brokers=localhost:9092 [--topic=leads.submitted] [--group=...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lead-relay/client"
	"lead-relay/logger"
	"lead-relay/models"
	"lead-relay/services/kafka"
	"lead-relay/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("leadctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	api := global.String("api", envOr("LEADCTL_API", "http://localhost:3001"), "relay base URL")
	timeout := global.Duration("timeout", 30*time.Second, "give up on the relay after this long (0 waits forever)")
	verbose := global.Bool("v", false, "log request failures to stderr")
	global.Usage = func() { usage(stderr, global) }
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr, global)
		return 2
	}

	logOut := io.Discard
	if *verbose {
		logOut = stderr
	}
	log := logger.New(logger.Config{Level: logger.ERROR, Output: logOut, Text: true})
	c := client.NewClient(*api, client.WithLogger(log))

	if rest[0] == "events" {
		return tailEvents(rest[1:], stdout, stderr, log)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	var n client.Notification
	switch cmd := rest[0]; cmd {
	case "call":
		form, err := parseCall(rest[1:], stderr)
		if err != nil {
			return 2
		}
		n = c.SubmitCall(ctx, form)
	case "calc":
		form, err := parseCalc(rest[1:], stderr)
		if err != nil {
			return 2
		}
		fmt.Fprintf(stdout, "Стоимость материала: %s\n", form.TotalCost())
		fmt.Fprintf(stdout, "Доставка: %s\n", utils.DeliveryCostNote)
		n = c.SubmitCalculation(ctx, form)
	case "materials":
		for _, m := range models.Catalog {
			fmt.Fprintf(stdout, "%-14s %-18s %d ₽/м³\n", m.Value, m.Label, m.Price)
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr, global)
		return 2
	}

	fmt.Fprintf(stdout, "%s\n%s\n", n.Title, n.Description)
	if n.IsError() {
		return 1
	}
	return 0
}

func parseCall(args []string, stderr io.Writer) (*client.CallForm, error) {
	fs := flag.NewFlagSet("call", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "customer name (required)")
	phone := fs.String("phone", "", "contact phone (required)")
	preferred := fs.String("time", "", "preferred call time")
	question := fs.String("question", "", "free-form question")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	form := &client.CallForm{}
	form.SetName(*name)
	form.SetPhone(*phone)
	form.SetPreferredTime(*preferred)
	form.SetQuestion(*question)
	return form, nil
}

func parseCalc(args []string, stderr io.Writer) (*client.CalculatorForm, error) {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	material := fs.String("material", "", "material value, see `leadctl materials` (required)")
	volume := fs.String("volume", "", "volume in м³ (required)")
	address := fs.String("address", "", "delivery address (required)")
	phone := fs.String("phone", "", "contact phone (required)")
	name := fs.String("name", "", "customer name")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	form := &client.CalculatorForm{}
	form.SetMaterial(*material)
	form.SetVolume(*volume)
	form.SetAddress(*address)
	form.SetPhone(*phone)
	form.SetName(*name)
	return form, nil
}

// tailEvents prints lead events as JSON lines until interrupted.
func tailEvents(args []string, stdout, stderr io.Writer, log *logger.Logger) int {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(stderr)
	brokers := fs.String("brokers", os.Getenv("KAFKA_BROKERS"), "comma-separated Kafka brokers")
	topic := fs.String("topic", envOr("KAFKA_LEAD_TOPIC", "leads.submitted"), "lead event topic")
	group := fs.String("group", "", "consumer group; empty reads new events only")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	consumer, err := kafka.NewConsumer(strings.Split(*brokers, ","), *topic, *group, log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(stdout)
	if err := consumer.Run(ctx, func(ev models.LeadSubmittedEvent) error { return enc.Encode(ev) }); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: leadctl [flags] call|calc|materials|events [command flags]")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/commtrack/internal/events"
)

var (
	tailNATSURL string
	tailTopics  []string
)

// busMessage is one observed bus event, tagged with its topic.
type busMessage struct {
	topic string
	data  []byte
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the NATS event bus directly",
	Long: `Subscribes to the service's NATS topics and prints every event as it
is published. Useful for watching what a running server (or several) emit
without going through the HTTP stream.`,
	// Talks to NATS, not to the HTTP API.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		url := tailNATSURL
		if url == "" {
			url = os.Getenv("CT_NATS_URL")
		}
		if url == "" {
			return fmt.Errorf("no NATS URL; pass --nats-url or set CT_NATS_URL")
		}

		sub, err := events.NewNATSSubscriber(url)
		if err != nil {
			return err
		}
		defer sub.Close()

		topics := tailTopics
		if len(topics) == 0 {
			topics = []string{
				events.TopicEventCreated, events.TopicEventUpdated, events.TopicEventDeleted,
				events.TopicCompanyCreated, events.TopicCompanyUpdated, events.TopicCompanyDeleted,
				events.TopicMethodCreated, events.TopicMethodDeleted,
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		msgs := make(chan busMessage, 64)
		for _, topic := range topics {
			ch, cancel, err := sub.Subscribe(topic)
			if err != nil {
				return err
			}
			defer cancel()

			go func(topic string, ch <-chan []byte) {
				for data := range ch {
					select {
					case msgs <- busMessage{topic: topic, data: data}:
					case <-ctx.Done():
						return
					}
				}
			}(topic, ch)
		}

		fmt.Fprintf(os.Stderr, "tailing %d topics on %s\n", len(topics), url)
		for {
			select {
			case <-ctx.Done():
				return nil
			case m := <-msgs:
				if jsonOutput {
					fmt.Printf(`{"topic":%q,"event":%s}`+"\n", m.topic, m.data)
				} else {
					fmt.Printf("%s  %-28s %s\n", time.Now().UTC().Format("15:04:05"), m.topic, m.data)
				}
			}
		}
	},
}

func init() {
	eventsTailCmd.Flags().StringVar(&tailNATSURL, "nats-url", "", "NATS server URL (default CT_NATS_URL)")
	eventsTailCmd.Flags().StringSliceVar(&tailTopics, "topic", nil, "topics to follow (default: all)")
	eventsCmd.AddCommand(eventsTailCmd)
}

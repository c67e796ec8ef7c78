package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simeonreusch/planobs/infra/logger"
	"github.com/simeonreusch/planobs/infra/queue"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the ZTF ToO observation queue",
}

var queueTooCmd = &cobra.Command{
	Use:   "too <username>",
	Short: "List the ToO triggers currently queued",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueToo,
}

var queueAllCmd = &cobra.Command{
	Use:   "all <username>",
	Short: "List every queue entry, ToO or not",
	Args:  cobra.ExactArgs(1),
	RunE:  runQueueAll,
}

func init() {
	queueCmd.AddCommand(queueTooCmd)
	queueCmd.AddCommand(queueAllCmd)
	rootCmd.AddCommand(queueCmd)
}

func queueClient(username string) (*queue.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Queue.User = username

	client, err := queue.NewClient(cfg.Queue, logger.New("queue"), nil)
	if err != nil {
		return nil, fmt.Errorf("queue client: %w", err)
	}
	return client, nil
}

func runQueueToo(cmd *cobra.Command, args []string) error {
	client, err := queueClient(args[0])
	if err != nil {
		return err
	}
	entries, err := client.ListTooQueues(cmd.Context())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		cmd.Println("Currently, no ToO triggers are in the ZTF observation queue.")
		return nil
	}
	cmd.Println("The current ZTF ToO observation queue:")
	for _, e := range entries {
		cmd.Println(e.QueueName)
	}
	return nil
}

func runQueueAll(cmd *cobra.Command, args []string) error {
	client, err := queueClient(args[0])
	if err != nil {
		return err
	}
	entries, err := client.ListAllQueues(cmd.Context())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		cmd.Println("Currently, no triggers are in the ZTF observation queue.")
		return nil
	}
	cmd.Println("The current ZTF observation queue:")
	for _, e := range entries {
		cmd.Println(e.QueueName)
	}
	return nil
}

// Command viewer prints the stored transcript of a room without going
// through the server, straight off the Badger files in read-only mode.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"codecrux/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Room           string `envconfig:"VIEWER_ROOM" required:"true"`
	Limit          int    `envconfig:"VIEWER_LIMIT" default:"50"`
	Colours        bool   `envconfig:"VIEWER_COLOURS" default:"true"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repository := repositories.NewMessageRepository(db, slog.Default(), &config.Limit)
	messages, _, err := repository.GetMessages(config.Room, nil)
	if err != nil {
		log.Fatalf("Failed to read messages: %v", err)
	}

	header := fmt.Sprintf(" Room %s : %d message(s) ", config.Room, len(messages))
	if config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Role", "Lang", "Content"})
	table.SetColWidth(80)
	for _, m := range messages {
		table.Append([]string{
			m.At.Format("2006-01-02 15:04:05"),
			m.Role,
			m.Language,
			m.Content,
		})
	}
	table.Render()
}

// Room table dump for a babblebridge BadgerDB. Read-only: safe to run
// next to a live server thanks to the lock guard bypass.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

type roomRow struct {
	RoomCode     string `json:"roomCode"`
	Participants []struct {
		Username string `json:"username"`
	} `json:"participants"`
	Languages          []string                     `json:"languages"`
	MessagesByLanguage map[string][]json.RawMessage `json:"messagesByLanguage"`
	LastUpdated        time.Time                    `json:"lastUpdated"`
}

func main() {
	dbPath := flag.String("db", "./data", "Path to badger DB")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Participants", "Languages", "Messages", "Last Updated"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var row roomRow
				if err := json.Unmarshal(v, &row); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				var usernames []string
				for _, p := range row.Participants {
					usernames = append(usernames, p.Username)
				}
				total := 0
				for _, bucket := range row.MessagesByLanguage {
					total += len(bucket)
				}
				table.Append([]string{
					row.RoomCode,
					strings.Join(usernames, ", "),
					strings.Join(row.Languages, ", "),
					fmt.Sprintf("%d", total),
					row.LastUpdated.Format(time.RFC822),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning rooms: ", err)
	}

	table.Render()
}

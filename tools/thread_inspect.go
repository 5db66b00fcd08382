package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"msg-kernel/domain"
	"msg-kernel/domain/component"
	"msg-kernel/projection"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Read-only inspector over the badger backend: scans message records
// and prints them as a table, one row per stored message.
func main() {
	dbPath := flag.String("db", "storage.badger", "Path to badger DB")
	thread := flag.String("thread", "", "Restrict the scan to one thread id")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Thread", "Message", "From", "To", "At", "Text", "Components"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	registry := component.Builtins()
	prefix := []byte("msg:" + *thread)

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var raw map[string]any
				if err := json.Unmarshal(v, &raw); err != nil {
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}
				m, err := domain.DecodeMessage(registry, raw)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				table.Append([]string{
					shortID(m.ThreadID.String()),
					shortID(m.ID.String()),
					m.Sender,
					m.Receiver,
					m.Timestamp.Format("15:04:05"),
					m.Text,
					strings.Join(lo.Map(m.Components, func(c component.Component, _ int) string {
						return projection.Summarize(c)
					}), " | "),
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
		log.Fatal(err)
	}

	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

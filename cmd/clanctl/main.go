// Command clanctl is the operator CLI: list/inspect clans and dry-run
// a ticket decode against a stored fixture, for local operations and
// smoke-testing deployments. Grounded on marmos91-dittofs's cobra
// cmd/ usage — the teacher itself has no cobra dependency.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/udisondev/clanserver/internal/ticket"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var mongoURI string

	root := &cobra.Command{
		Use:   "clanctl",
		Short: "Operator CLI for the clan service",
	}
	root.PersistentFlags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "document store connection string")

	root.AddCommand(newListClansCmd(&mongoURI))
	root.AddCommand(newInspectClanCmd(&mongoURI))
	root.AddCommand(newDecodeTicketCmd())

	return root
}

func newListClansCmd(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list-clans",
		Short: "List every clan id, name, and tag in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client, err := mongo.Connect(options.Client().ApplyURI(*mongoURI))
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			cur, err := client.Database("clans").Collection("clans").Find(ctx, bson.D{})
			if err != nil {
				return err
			}
			defer cur.Close(ctx)

			for cur.Next(ctx) {
				var row struct {
					ID   uint32 `bson:"id"`
					Name string `bson:"name"`
					Tag  string `bson:"tag"`
				}
				if err := cur.Decode(&row); err != nil {
					return err
				}
				fmt.Printf("%d\t%s\t%s\n", row.ID, row.Name, row.Tag)
			}
			return cur.Err()
		},
	}
}

func newInspectClanCmd(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-clan [id]",
		Short: "Dump a single clan document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing clan id: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client, err := mongo.Connect(options.Client().ApplyURI(*mongoURI))
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			var doc bson.M
			err = client.Database("clans").Collection("clans").FindOne(ctx, bson.D{{Key: "id", Value: uint32(id)}}).Decode(&doc)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func newDecodeTicketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode-ticket [base64]",
		Short: "Dry-run decode a base64 ticket fixture without verifying its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ticket.Decode(args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("version=0x%04X username=%q region=%q domain=%q issued=%s expires=%s signer=%v\n",
				t.Version, t.Username, t.Region, t.Domain, t.IssuedAt, t.ExpiresAt, t.Signature.Kind)
			return nil
		},
	}
}

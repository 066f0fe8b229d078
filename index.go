package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/mjl-/bstore"

	"github.com/mjl-/eml/message"
)

// MessageMeta is one indexed message from an mbox file.
type MessageMeta struct {
	ID        int64
	Mailbox   string `bstore:"nonzero,index"` // Path of the mbox file.
	Sequence  int    // Position in the mbox, first message is 1.
	From      string `bstore:"index"`
	Subject   string
	Date      time.Time
	MessageID string
	MediaType string // Media type of the root part, e.g. "multipart/mixed".
	Parts     int    // Direct children of the root part.
	Size      int64
	Recovered bool // Whether parsing took any fallback.
}

func cmdIndexMbox(c *cmd) {
	c.params = "file.mbox [index.db]"
	c.help = `Parse all messages in an mbox file and store their metadata in a database.

Every message is parsed with the permissive parser, so corrupt messages
still get a record, flagged as recovered. The database can be queried with
any bstore-compatible tool, and reindexing the same mbox replaces its
records.`
	args := c.Parse()
	if len(args) != 1 && len(args) != 2 {
		c.Usage()
	}
	path := args[0]
	dbpath := path + ".index.db"
	if len(args) == 2 {
		dbpath = args[1]
	}

	f, err := os.Open(path)
	xcheckf(err, "open mbox file")
	defer f.Close()

	ctx := context.Background()
	db, err := bstore.Open(ctx, dbpath, &bstore.Options{Timeout: 5 * time.Second, Perm: 0660}, MessageMeta{})
	xcheckf(err, "open index database")
	defer db.Close()

	// Records from an earlier run over the same mbox are replaced.
	_, err = bstore.QueryDB[MessageMeta](ctx, db).FilterNonzero(MessageMeta{Mailbox: path}).Delete()
	xcheckf(err, "removing existing records for mbox")

	mr := mbox.NewReader(f)
	var total, recovered int
	for {
		r, err := mr.NextMessage()
		if err == io.EOF {
			break
		}
		xcheckf(err, "reading next message from mbox")
		buf, err := io.ReadAll(r)
		xcheckf(err, "reading message from mbox")

		msg := message.Parse(nil, buf)
		meta := MessageMeta{
			Mailbox:   path,
			Sequence:  total + 1,
			From:      msg.IMF.From[0].AddrSpec.String(),
			Date:      time.Time{},
			MediaType: msg.Child.Type.Type + "/" + msg.Child.Type.Subtype,
			Parts:     len(msg.Child.Parts),
			Size:      int64(len(buf)),
			Recovered: msg.Recovered,
		}
		if msg.IMF.Subject != nil {
			meta.Subject = *msg.IMF.Subject
		}
		if msg.IMF.Date != nil {
			meta.Date = *msg.IMF.Date
		}
		if msg.IMF.MessageID != nil {
			meta.MessageID = msg.IMF.MessageID.String()
		}
		err = db.Insert(ctx, &meta)
		xcheckf(err, "inserting message record")

		total++
		if msg.Recovered {
			recovered++
		}
	}
	fmt.Printf("%d messages indexed into %s, %d with parse recoveries\n", total, dbpath, recovered)
}

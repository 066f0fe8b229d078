// Command eml parses internet messages (RFC 5322) with MIME (RFC 2045-2049)
// structure, for inspecting individual messages and indexing mailboxes. It
// is the command-line companion of the library packages in this module.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/mjl-/eml/config"
	"github.com/mjl-/eml/imf"
	"github.com/mjl-/eml/message"
	"github.com/mjl-/eml/mlog"
)

var commands = []struct {
	cmd string
	fn  func(c *cmd)
}{
	{"message parse", cmdMessageParse},
	{"imf parse", cmdIMFParse},
	{"addr parse", cmdAddrParse},
	{"date parse", cmdDateParse},
	{"index mbox", cmdIndexMbox},
	{"config test", cmdConfigTest},
	{"config describe", cmdConfigDescribe},
	{"version", cmdVersion},
	{"help", cmdHelp},
}

var cmds []cmd

func init() {
	for _, xc := range commands {
		c := cmd{words: strings.Split(xc.cmd, " "), fn: xc.fn}
		cmds = append(cmds, c)
	}
}

type cmd struct {
	words []string
	fn    func(c *cmd)

	// Set before calling command.
	flag     *flag.FlagSet
	flagArgs []string
	_gather  bool // Set when using Parse to gather usage for a command.

	// Set by invoked command or Parse.
	params string // Arguments to command. Multiple lines possible.
	help   string // Additional explanation. First line is synopsis.
	args   []string
}

func (c *cmd) Parse() []string {
	// To gather params and usage information, we just run the command but
	// cause this panic after the command has registered its flags and set its
	// params and help information. This is then caught and that info printed.
	if c._gather {
		panic("gather")
	}

	c.flag.Usage = c.Usage
	c.flag.Parse(c.flagArgs)
	c.args = c.flag.Args()
	return c.args
}

func (c *cmd) gather() {
	c.flag = flag.NewFlagSet("eml "+strings.Join(c.words, " "), flag.ExitOnError)
	c._gather = true
	defer func() {
		x := recover()
		// panic generated by Parse.
		if x != "gather" {
			panic(x)
		}
	}()
	c.fn(c)
}

func (c *cmd) makeUsage() string {
	var r strings.Builder
	cs := "eml " + strings.Join(c.words, " ")
	for i, line := range strings.Split(strings.TrimSpace(c.params), "\n") {
		s := ""
		if i == 0 {
			s = "usage:"
		}
		if line != "" {
			line = " " + line
		}
		fmt.Fprintf(&r, "%6s %s%s\n", s, cs, line)
	}
	c.flag.SetOutput(&r)
	c.flag.PrintDefaults()
	return r.String()
}

func (c *cmd) printUsage() {
	fmt.Fprint(os.Stderr, c.makeUsage())
	if c.help != "" {
		fmt.Fprint(os.Stderr, "\n"+c.help+"\n")
	}
}

func (c *cmd) Usage() {
	c.printUsage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: eml [-config eml.conf] command ...")
	for _, c := range cmds {
		fmt.Fprintf(os.Stderr, "       eml %s\n", strings.Join(c.words, " "))
	}
	os.Exit(2)
}

func xcheckf(err error, format string, args ...any) {
	if err != nil {
		log.Fatalf("%s: %s", fmt.Sprintf(format, args...), err)
	}
}

var configPath string

func main() {
	log.SetFlags(0)

	flag.Usage = usage
	flag.StringVar(&configPath, "config", "eml.conf", "path to config file")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	cfg, err := config.Load(configPath)
	xcheckf(err, "loading config")
	level, err := mlog.ParseLevel(cfg.LogLevel)
	xcheckf(err, "parsing log level")
	mlog.SetLogLevel(level)
	message.MaxDepth = cfg.MaxMIMEDepth

	var partial []cmd
	for _, c := range cmds {
		n := len(c.words)
		if n <= len(args) && strings.Join(c.words, " ") == strings.Join(args[:n], " ") {
			c.flag = flag.NewFlagSet("eml "+strings.Join(c.words, " "), flag.ExitOnError)
			c.flagArgs = args[n:]
			c.fn(&c)
			return
		}
		if len(args) < n && strings.Join(c.words[:len(args)], " ") == strings.Join(args, " ") {
			partial = append(partial, c)
		}
	}
	if len(partial) > 0 {
		for _, c := range partial {
			fmt.Fprintf(os.Stderr, "eml %s\n", strings.Join(c.words, " "))
		}
		os.Exit(2)
	}
	usage()
}

func cmdHelp(c *cmd) {
	c.params = "[command ...]"
	c.help = "Prints help about matching commands."
	args := c.Parse()
	if len(args) == 0 {
		usage()
	}
	for _, xc := range cmds {
		if strings.Join(xc.words, " ") == strings.Join(args, " ") {
			xc.gather()
			fmt.Print(xc.makeUsage())
			if xc.help != "" {
				fmt.Print("\n" + xc.help + "\n")
			}
			return
		}
	}
	fmt.Fprintf(os.Stderr, "%s: unknown command\n", strings.Join(args, " "))
	os.Exit(2)
}

func cmdVersion(c *cmd) {
	c.help = "Prints version of this build."
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println(version)
}

// xreadFile reads a message from a path, or from stdin for "-" or no
// argument.
func xreadFile(args []string, c *cmd) []byte {
	if len(args) > 1 {
		c.Usage()
	}
	if len(args) == 0 || args[0] == "-" {
		buf, err := io.ReadAll(os.Stdin)
		xcheckf(err, "reading stdin")
		return buf
	}
	buf, err := os.ReadFile(args[0])
	xcheckf(err, "reading message file")
	return buf
}

func cmdMessageParse(c *cmd) {
	c.params = "[message.eml]"
	c.help = `Parse a message and print its header fields and MIME structure.

Parsing never fails: malformed input is reported through the sentinel values
and the recovered flag.`
	buf := xreadFile(c.Parse(), c)

	msg := message.Parse(nil, buf)
	printSection(os.Stdout, msg.IMF)
	fmt.Printf("header charset: %s\n", msg.HeaderCharset)
	fmt.Printf("recovered: %v\n", msg.Recovered)
	fmt.Println("structure:")
	printPart(os.Stdout, msg.Child, "  ")
}

func printSection(w io.Writer, s *imf.Section) {
	if s.Date != nil {
		fmt.Fprintf(w, "Date: %s\n", s.Date.Format("2 Jan 2006 15:04:05 -0700"))
	} else if s.DateRaw != "" {
		fmt.Fprintf(w, "Date: %s (unparsed)\n", s.DateRaw)
	}
	printMailboxes(w, "From", s.From)
	if s.Sender != nil {
		fmt.Fprintf(w, "Sender: %s\n", s.Sender)
	}
	printAddresses(w, "Reply-To", s.ReplyTo)
	printAddresses(w, "To", s.To)
	printAddresses(w, "Cc", s.Cc)
	printAddresses(w, "Bcc", s.Bcc)
	if s.MessageID != nil {
		fmt.Fprintf(w, "Message-ID: %s\n", s.MessageID)
	}
	for _, id := range s.InReplyTo {
		fmt.Fprintf(w, "In-Reply-To: %s\n", id)
	}
	for _, id := range s.References {
		fmt.Fprintf(w, "References: %s\n", id)
	}
	if s.Subject != nil {
		fmt.Fprintf(w, "Subject: %s\n", *s.Subject)
	}
	for _, v := range s.Comments {
		fmt.Fprintf(w, "Comments: %s\n", v)
	}
	if len(s.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %s\n", strings.Join(s.Keywords, ", "))
	}
	for _, a := range s.ReturnPath {
		fmt.Fprintf(w, "Return-Path: <%s>\n", a)
	}
	for _, r := range s.Received {
		fmt.Fprintf(w, "Received: %s; %s\n", r.Info, r.Date.Format("2 Jan 2006 15:04:05 -0700"))
	}
	for _, f := range s.Other {
		switch f.Kind {
		case imf.FieldRescue:
			fmt.Fprintf(w, "(rescued) %s\n", f.Raw)
		case imf.FieldOptional:
			fmt.Fprintf(w, "%s: %s\n", f.Name, f.Text)
		default:
			fmt.Fprintf(w, "(duplicate) %s: %s\n", f.Name, f.Raw)
		}
	}
}

func printMailboxes(w io.Writer, name string, l []imf.Mailbox) {
	if len(l) == 0 {
		return
	}
	r := make([]string, len(l))
	for i, m := range l {
		r[i] = m.String()
	}
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(r, ", "))
}

func printAddresses(w io.Writer, name string, l []imf.Address) {
	if len(l) == 0 {
		return
	}
	r := make([]string, len(l))
	for i, a := range l {
		r[i] = a.String()
	}
	fmt.Fprintf(w, "%s: %s\n", name, strings.Join(r, ", "))
}

func printPart(w io.Writer, p *message.Part, indent string) {
	switch p.Kind {
	case message.Multipart:
		fmt.Fprintf(w, "%s%s/%s, boundary %q, %d parts\n", indent, p.Type.Type, p.Type.Subtype, p.Boundary, len(p.Parts))
		for _, cp := range p.Parts {
			printPart(w, cp, indent+"  ")
		}
	case message.Embedded:
		fmt.Fprintf(w, "%smessage/%s, embedded message\n", indent, p.Type.Subtype)
		printPart(w, p.Message.Child, indent+"  ")
	default:
		fmt.Fprintf(w, "%s%s/%s, %s, %d bytes\n", indent, p.Type.Type, p.Type.Subtype, p.Encoding, len(p.Body))
	}
}

func cmdIMFParse(c *cmd) {
	c.params = "[message.eml]"
	c.help = "Parse only the header section of a message and print its fields."
	buf := xreadFile(c.Parse(), c)
	printSection(os.Stdout, message.ParseIMF(nil, buf))
}

func cmdAddrParse(c *cmd) {
	c.params = "addresses ..."
	c.help = `Parse address lists and print the interpreted addresses.

Each argument is parsed as one address-list header value.`
	args := c.Parse()
	if len(args) == 0 {
		c.Usage()
	}
	for _, arg := range args {
		l, ok := imf.ParseAddressList(arg)
		if !ok {
			fmt.Printf("%q: no addresses\n", arg)
			continue
		}
		for _, a := range l {
			for _, m := range a.Mailboxes() {
				fmt.Printf("%s\t%s\n", m.AddrSpec, m.Name)
			}
		}
	}
}

func cmdDateParse(c *cmd) {
	c.params = "datetime"
	c.help = "Parse an RFC 5322 date-time, including the obsolete forms."
	args := c.Parse()
	if len(args) != 1 {
		c.Usage()
	}
	t, ok := imf.ParseDateTime(args[0])
	if !ok {
		log.Fatalf("unparseable date-time %q", args[0])
	}
	fmt.Println(t.Format(time.RFC3339))
}

func cmdConfigTest(c *cmd) {
	c.help = "Parse the config file and report errors."
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	_, err := config.Load(configPath)
	xcheckf(err, "checking config")
	fmt.Println("config OK")
}

func cmdConfigDescribe(c *cmd) {
	c.help = "Print an annotated example config file."
	if len(c.Parse()) != 0 {
		c.Usage()
	}
	err := config.Describe(os.Stdout)
	xcheckf(err, "describing config")
}

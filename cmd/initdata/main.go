package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/totegamma/funnelbuilder"
	"github.com/totegamma/funnelbuilder/initdata"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

type fieldList []string

func (f *fieldList) String() string     { return strings.Join(*f, ",") }
func (f *fieldList) Set(v string) error { *f = append(*f, v); return nil }

func run(args []string, out io.Writer, errOut io.Writer, now func() time.Time) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "sign":
		return cmdSign(args[1:], out, errOut, now)
	case "verify":
		return cmdVerify(args[1:], out, errOut, now)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "initdata: sign and verify mini app launch payloads")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  initdata sign --token <bot token> --field key=value [--field ...] [--auth-date <unix>]")
	fmt.Fprintln(w, "  initdata verify --token <bot token> [--max-age 24h] <payload>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - sign sets auth_date to the current time unless given")
	fmt.Fprintln(w, "  - verify exits 1 when the payload is rejected")
}

func cmdSign(args []string, out io.Writer, errOut io.Writer, now func() time.Time) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)
	token := fs.String("token", os.Getenv("FUNNELBUILDER_TELEGRAM_BOT_TOKEN"), "bot token")
	authDate := fs.Int64("auth-date", 0, "unix seconds, defaults to now")
	var fields fieldList
	fs.Var(&fields, "field", "key=value pair, repeatable")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *token == "" {
		fmt.Fprintln(errOut, "--token is required")
		return 2
	}

	payload := initdata.Fields{}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			fmt.Fprintf(errOut, "invalid field %q\n", f)
			return 2
		}
		payload.Set(key, value)
	}
	if _, ok := payload.Get("auth_date"); !ok {
		date := *authDate
		if date == 0 {
			date = now().Unix()
		}
		payload.Set("auth_date", strconv.FormatInt(date, 10))
	}

	fmt.Fprintln(out, initdata.Encode(payload, []byte(*token)))
	return 0
}

type verifyOutput struct {
	Authenticated bool                    `json:"authenticated"`
	Principal     *initdata.Principal     `json:"principal,omitempty"`
	Launch        *initdata.LaunchContext `json:"launch,omitempty"`
	Reason        string                  `json:"reason,omitempty"`
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer, now func() time.Time) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	token := fs.String("token", os.Getenv("FUNNELBUILDER_TELEGRAM_BOT_TOKEN"), "bot token")
	maxAge := fs.Duration("max-age", 24*time.Hour, "maximum payload age, 0 disables the check")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *token == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "--token and exactly one payload are required")
		return 2
	}

	res := initdata.Verify(fs.Arg(0), []byte(*token), *maxAge, now)
	principal, ok := res.Principal()
	if !ok {
		funnelbuilder.JsonPrint(out, "", verifyOutput{Reason: string(res.Reason())})
		return 1
	}
	launch := res.Launch()
	funnelbuilder.JsonPrint(out, "", verifyOutput{
		Authenticated: true,
		Principal:     &principal,
		Launch:        &launch,
	})
	return 0
}

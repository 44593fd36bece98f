package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	compounddoc "github.com/reoring/compounddoc"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "compounddoc CLI\n\nUsage:\n  compounddoc validate -type TYPE [-policy policy.yaml] [-client-ids] document.json\n\nNotes:\n  - Exit code 1 means the document failed validation; issues are printed one per line.")
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var expectedType string
	var policyPath string
	var clientIDs bool
	fs.StringVar(&expectedType, "type", "", "expected primary resource type")
	fs.StringVar(&policyPath, "policy", "", "YAML client-id policy file")
	fs.BoolVar(&clientIDs, "client-ids", false, "accept client-generated ids (ignored when -policy is set)")
	_ = fs.Parse(args)
	if expectedType == "" || fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatalf("reading document: %v", err)
	}
	doc, err := compounddoc.DecodeDocument(data)
	if err != nil {
		printIssues(err)
		os.Exit(1)
	}

	opts := []compounddoc.ValidatorOption{compounddoc.WithClientIDs(clientIDs)}
	if policyPath != "" {
		policy, err := compounddoc.LoadPolicyFile(policyPath)
		if err != nil {
			fatalf("loading policy: %v", err)
		}
		opts = append(opts, compounddoc.WithPolicy(policy))
	}

	// No store on the CLI path: id-collision checks need a live backend.
	v := compounddoc.NewValidator(nil, opts...)
	if err := v.Validate(context.Background(), doc, expectedType); err != nil {
		printIssues(err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func printIssues(err error) {
	iss, ok := compounddoc.AsIssues(err)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for _, it := range iss {
		fmt.Fprintf(os.Stderr, "%s at %s: %s\n", it.Code, it.Path, it.Message)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

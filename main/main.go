package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ryogrid/SamehadaQE/common"
	"github.com/ryogrid/SamehadaQE/execution/executors"
	"github.com/ryogrid/SamehadaQE/parser"
	"github.com/ryogrid/SamehadaQE/samehada"
)

// usage: samehada-qe -config engine.yaml [-explain | -ast] "SELECT a FROM t WHERE a > 1"
func main() {
	configPath := flag.String("config", "", "path of the engine config (yaml)")
	explain := flag.Bool("explain", false, "print the plan instead of running the query")
	dumpAST := flag.Bool("ast", false, "print the parsed statement tree and exit")
	flag.Parse()

	sqlStr := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if sqlStr == "" {
		fmt.Fprintln(os.Stderr, "no query given")
		flag.Usage()
		os.Exit(2)
	}

	if *dumpAST {
		out, err := parser.PrintParsedNodes(&sqlStr)
		if err != nil {
			exitWithError(err)
		}
		fmt.Print(out)
		return
	}

	cfg := common.NewDefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = common.LoadConfig(*configPath); err != nil {
			exitWithError(err)
		}
	}
	qe, err := samehada.NewSamehadaQE(cfg)
	if err != nil {
		exitWithError(err)
	}

	if *explain {
		out, err := qe.ExplainSQL(sqlStr)
		if err != nil {
			exitWithError(err)
		}
		fmt.Print(out)
		return
	}

	schema, err := qe.ResultSchema(sqlStr)
	if err != nil {
		exitWithError(err)
	}
	result, err := qe.ExecuteSQL(context.Background(), sqlStr)
	if err != nil {
		exitWithError(err)
	}
	defer executors.ReleaseRecords(result)
	samehada.PrintExecuteResults(os.Stdout, schema, result)
}

func exitWithError(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

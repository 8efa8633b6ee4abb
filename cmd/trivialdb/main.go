package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/yll1325/TrivialDB/catalog"
	"github.com/yll1325/TrivialDB/engine"
	"github.com/yll1325/TrivialDB/executor"
	"github.com/yll1325/TrivialDB/parser"
	"github.com/yll1325/TrivialDB/planner"
	"github.com/yll1325/TrivialDB/storage"
)

func main() {
	dataDir := flag.String("data", "data", "base directory for table pages and indexes")
	flag.Parse()

	dm := storage.NewDiskManager(*dataDir)
	st := storage.NewStorage(dm)
	ct := catalog.NewCatalog()
	eng := engine.New(ct, st)

	rl, err := readline.New("TrivialDB > ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	ps := parser.NewSimpleParser()
	pl := planner.NewSimplePlanner(ct)
	ex := executor.NewSimpleExecutor(eng)

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl-D) ends the session
			break
		}
		if strings.TrimSpace(line) == "exit" {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rl.SaveHistory(line)

		if err := run(ps, pl, ex, line); err != nil {
			fmt.Println(err)
		}
	}

	fmt.Println("Bye!")
}

func run(ps *parser.SimpleParser, pl *planner.SimplePlanner, ex *executor.SimpleExecutor, sqlString string) error {
	stmt, err := ps.Parse(sqlString)
	if err != nil {
		return err
	}

	plan, err := pl.MakePlan(stmt)
	if err != nil {
		return err
	}

	rs, err := ex.Execute(plan)
	if err != nil {
		return err
	}

	if rs.CSV != "" {
		fmt.Print(rs.CSV)
	}
	if rs.Message != "" {
		fmt.Println(rs.Message)
	}
	return nil
}

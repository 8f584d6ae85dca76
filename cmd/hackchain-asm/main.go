// Command hackchain-asm assembles script text into hex and disassembles hex back into text.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goodnatureofminers/hackchain/internal/vm"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	Disassemble bool   `short:"d" long:"disassemble" description:"read hex and print a listing"`
	Base        uint16 `long:"base" description:"byte address the code is loaded at when disassembling" default:"0"`
	Args        struct {
		File string `positional-arg-name:"file" description:"input file, stdin when omitted"`
	} `positional-args:"yes"`
}

func main() {
	cfg := config{}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(cfg, os.Stdout); err != nil {
		logger.Fatal("hackchain-asm failed", zap.Error(err))
	}
}

func run(cfg config, out io.Writer) error {
	src, err := readInput(cfg.Args.File)
	if err != nil {
		return err
	}

	if cfg.Disassemble {
		code, err := hex.DecodeString(strings.Join(strings.Fields(string(src)), ""))
		if err != nil {
			return fmt.Errorf("decode hex: %w", err)
		}
		_, err = io.WriteString(out, vm.Listing(vm.Disassemble(code, cfg.Base)))
		return err
	}

	code, err := vm.ParseAsm(string(src))
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	_, err = fmt.Fprintln(out, hex.EncodeToString(code))
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

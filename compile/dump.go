package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"scopec/css"
	"scopec/scope"
	"scopec/sfc"
	"scopec/state"
)

// Dump is the dump subcommand entry point: it compiles a single component
// and prints the allocated scope, the parsed stylesheet structure and the
// rewritten result to stdout. Meant for troubleshooting scoping issues.
func Dump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	ext := sfc.NewExtractor(log)
	comp, err := ext.Parse(data, src)
	if err != nil {
		return err
	}

	identity, err := scope.NewIdentity(src, data)
	if err != nil {
		return err
	}
	id := env.Scopes.Allocate(identity)

	fmt.Printf("component: %s\n", comp.Name)
	fmt.Printf("scope:     %s\n", id)
	fmt.Printf("attribute: %s\n", id.Attr())

	parser := css.NewParser(log)
	rewriter := css.NewRewriter(log)

	for i, block := range comp.Styles {
		fmt.Printf("\n--- style block %d (scoped=%v) ---\n", i, block.Scoped)
		sheet, err := parser.Parse([]byte(block.Content), src)
		if err != nil {
			return err
		}
		if !block.Scoped {
			fmt.Print(sheet.String())
			continue
		}
		fmt.Print(rewriter.Rewrite(sheet, id).String())
	}

	log.Debug("Dump completed", zap.String("source", src), zap.Int("styles", len(comp.Styles)))
	return nil
}

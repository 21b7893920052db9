// Package graphdebug optionally exports a completed extraction's
// dependency set into Neo4j for visual inspection: one run's collected
// nodes and edges rather than a whole program's call graph.
package graphdebug

import (
	"context"
	"fmt"
	types_ "go/types"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"goslice/internal/collector"
	"goslice/internal/depnode"
	"goslice/internal/errs"
)

// Exporter writes a dependency set to Neo4j, namespacing every node by
// a per-run UUID so repeated extractions don't collide in a shared
// database.
type Exporter struct {
	driver neo4j.DriverWithContext
	runID  string
}

// New opens a Neo4j driver connection.
func New(uri, user, password string) (*Exporter, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errs.UnexpectedDependency("failed to create neo4j driver: %v", err)
	}
	return &Exporter{driver: driver, runID: uuid.NewString()}, nil
}

// Close releases the driver.
func (e *Exporter) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

func (e *Exporter) run(ctx context.Context, cypher string, params map[string]any) error {
	if params == nil {
		params = map[string]any{}
	}
	params["runID"] = e.runID
	_, err := neo4j.ExecuteQuery(ctx, e.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase("neo4j"))
	if err != nil {
		return errs.UnexpectedDependency("cypher query failed: %v", err)
	}
	return nil
}

// Clean removes every node tagged with this exporter's run ID, scoped
// per-run rather than wiping the whole database.
func (e *Exporter) Clean(ctx context.Context) error {
	return e.run(ctx, `MATCH (n {runID: $runID}) DETACH DELETE n`, nil)
}

// CreateIndexes creates one index per node label this exporter writes.
func (e *Exporter) CreateIndexes(ctx context.Context) error {
	for _, q := range []string{
		`CREATE INDEX IF NOT EXISTS FOR (t:SliceType) ON (t.fqn)`,
		`CREATE INDEX IF NOT EXISTS FOR (g:SliceGlobal) ON (g.fqn)`,
		`CREATE INDEX IF NOT EXISTS FOR (m:SliceMember) ON (m.fqn)`,
	} {
		if err := e.run(ctx, q, nil); err != nil {
			return err
		}
	}
	return nil
}

// Export writes res's types, globals, and type-to-member edges, one
// batched UNWIND/MERGE Cypher call per kind.
func (e *Exporter) Export(ctx context.Context, entry depnode.EntryPoint, res *collector.Result) error {
	if err := e.run(ctx, `
		MERGE (r:SliceRun {runID: $runID})
		SET r.entry = $entry`,
		map[string]any{"entry": entry.String()}); err != nil {
		return err
	}

	var types []map[string]any
	var members []map[string]any
	for fqn, tf := range res.Types {
		kind := "unknown"
		if tf.Named != nil {
			switch tf.Named.Underlying().(type) {
			case *types_.Struct:
				kind = "struct"
			case *types_.Interface:
				kind = "interface"
			default:
				kind = "newtype"
			}
		}
		types = append(types, map[string]any{"fqn": fqn, "kind": kind})
		for name := range tf.Members.Methods {
			members = append(members, map[string]any{"owner": fqn, "name": name, "kind": "method"})
		}
		for name := range tf.Members.SMethods {
			members = append(members, map[string]any{"owner": fqn, "name": name, "kind": "smethod"})
		}
		for name := range tf.Members.Fields {
			members = append(members, map[string]any{"owner": fqn, "name": name, "kind": "field"})
		}
		for name := range tf.Members.Consts {
			members = append(members, map[string]any{"owner": fqn, "name": name, "kind": "const"})
		}
	}
	if len(types) > 0 {
		if err := e.run(ctx, `
			UNWIND $rows AS row
			MERGE (t:SliceType {fqn: row.fqn, runID: $runID})
			SET t.kind = row.kind`,
			map[string]any{"rows": types}); err != nil {
			return err
		}
	}
	if len(members) > 0 {
		if err := e.run(ctx, `
			UNWIND $rows AS row
			MATCH (t:SliceType {fqn: row.owner, runID: $runID})
			MERGE (m:SliceMember {fqn: row.owner + "." + row.name, runID: $runID})
			SET m.kind = row.kind
			MERGE (t)-[:HAS_MEMBER]->(m)`,
			map[string]any{"rows": members}); err != nil {
			return err
		}
	}

	var globals []map[string]any
	for _, g := range res.Globals {
		globals = append(globals, map[string]any{
			"fqn":  fmt.Sprintf("%s.%s", g.PkgPath, g.Name),
			"kind": g.Kind.String(),
		})
	}
	if len(globals) > 0 {
		if err := e.run(ctx, `
			UNWIND $rows AS row
			MERGE (g:SliceGlobal {fqn: row.fqn, runID: $runID})
			SET g.kind = row.kind`,
			map[string]any{"rows": globals}); err != nil {
			return err
		}
	}
	return nil
}

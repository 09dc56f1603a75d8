package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"leangraph/internal/decl"
	"leangraph/internal/graph"
)

// Neo4jRepository implements graph.Repository using Neo4j. Declarations
// are (:Decl) nodes linked to their (:Library); every use is a [:USES]
// edge from the used declaration to the user, tagged with the payload
// side (type/value) and role (proof/other) so the four use-sets can be
// rebuilt on load.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j-backed repository.
func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	return &Neo4jRepository{driver: driver}, nil
}

func (r *Neo4jRepository) StoreLibrary(ctx context.Context, lib *decl.Library) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx,
			"MERGE (l:Library {name: $name})",
			map[string]any{"name": lib.Name}); err != nil {
			return nil, err
		}
		for _, name := range lib.Names() {
			d := lib.Decls[name]
			if _, err := tx.Run(ctx,
				"MERGE (d:Decl {name: $name}) "+
					"SET d.kind = $kind, d.user_kind = $userKind, d.file = $file, d.line = $line, "+
					"d.inductive = $inductive, d.structure = $structure, d.class = $class, "+
					"d.instance = $instance, d.target_class = $target, "+
					"d.type_size = $tsize, d.value_size = $vsize "+
					"WITH d MATCH (l:Library {name: $lib}) MERGE (l)-[:DECLARES]->(d)",
				map[string]any{
					"name": d.Name, "kind": d.Kind, "userKind": d.UserKind(),
					"file": d.Filename, "line": d.Line,
					"inductive": d.IsInductive, "structure": d.IsStructure,
					"class": d.IsClass, "instance": d.IsInstance,
					"target": d.TargetClass,
					"tsize":  d.Type.RawSize, "vsize": d.Value.RawSize,
					"lib": lib.Name,
				}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store library %s: %w", lib.Name, err)
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, name := range lib.Names() {
			d := lib.Decls[name]
			for side, payload := range map[string]*decl.Payload{"type": &d.Type, "value": &d.Value} {
				for role, uses := range map[string]decl.NameSet{"proof": payload.UsesProofs, "other": payload.UsesOthers} {
					for _, used := range uses.Sorted() {
						if _, err := tx.Run(ctx,
							"MERGE (u:Decl {name: $used}) "+
								"MERGE (d:Decl {name: $user}) "+
								"MERGE (u)-[:USES {side: $side, role: $role}]->(d)",
							map[string]any{"used": used, "user": d.Name, "side": side, "role": role}); err != nil {
							return nil, err
						}
					}
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("store library %s edges: %w", lib.Name, err)
	}
	return nil
}

func (r *Neo4jRepository) LoadLibrary(ctx context.Context, name string) (*decl.Library, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		lib := decl.NewLibrary(name)

		records, err := tx.Run(ctx,
			"MATCH (:Library {name: $lib})-[:DECLARES]->(d:Decl) "+
				"RETURN d.name, d.kind, d.file, d.line, d.inductive, d.structure, "+
				"d.class, d.instance, d.target_class, d.type_size, d.value_size",
			map[string]any{"lib": name})
		if err != nil {
			return nil, err
		}
		for records.Next(ctx) {
			rec := records.Record()
			d := &decl.Declaration{
				Name:        stringValue(rec, "d.name"),
				Kind:        stringValue(rec, "d.kind"),
				Filename:    stringValue(rec, "d.file"),
				Line:        intValue(rec, "d.line"),
				IsInductive: boolValue(rec, "d.inductive"),
				IsStructure: boolValue(rec, "d.structure"),
				IsClass:     boolValue(rec, "d.class"),
				IsInstance:  boolValue(rec, "d.instance"),
				TargetClass: stringValue(rec, "d.target_class"),
			}
			d.Type = decl.Payload{RawSize: intValue(rec, "d.type_size"), UsesProofs: decl.NewNameSet(), UsesOthers: decl.NewNameSet()}
			d.Value = decl.Payload{RawSize: intValue(rec, "d.value_size"), UsesProofs: decl.NewNameSet(), UsesOthers: decl.NewNameSet()}
			lib.Put(d)
		}

		edges, err := tx.Run(ctx,
			"MATCH (u:Decl)-[e:USES]->(d:Decl)<-[:DECLARES]-(:Library {name: $lib}) "+
				"RETURN u.name, d.name, e.side, e.role",
			map[string]any{"lib": name})
		if err != nil {
			return nil, err
		}
		for edges.Next(ctx) {
			rec := edges.Record()
			used := stringValue(rec, "u.name")
			d, ok := lib.Get(stringValue(rec, "d.name"))
			if !ok {
				continue
			}
			payload := &d.Type
			if stringValue(rec, "e.side") == "value" {
				payload = &d.Value
			}
			if stringValue(rec, "e.role") == "proof" {
				payload.UsesProofs.Add(used)
			} else {
				payload.UsesOthers.Add(used)
			}
		}
		return lib, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load library %s: %w", name, err)
	}
	return result.(*decl.Library), nil
}

func (r *Neo4jRepository) QueryUsers(ctx context.Context, name string) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (:Decl {name: $name})-[:USES]->(user:Decl) RETURN DISTINCT user.name ORDER BY user.name",
			map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		var names []string
		for records.Next(ctx) {
			n, _ := records.Record().Get("user.name")
			names = append(names, n.(string))
		}
		return names, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query users of %s: %w", name, err)
	}
	return result.([]string), nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func stringValue(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func intValue(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	n, _ := v.(int64)
	return int(n)
}

func boolValue(rec *neo4j.Record, key string) bool {
	v, _ := rec.Get(key)
	b, _ := v.(bool)
	return b
}

var _ graph.Repository = (*Neo4jRepository)(nil)

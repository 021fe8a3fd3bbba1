package architecture_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// gameRepoWriteMethods mutate stored games; only the game aggregate may call them.
var gameRepoWriteMethods = map[string]bool{
	"Save":   true,
	"Update": true,
}

// TestServicesWriteGamesThroughAggregate fails when a service method calls a game
// repo write directly instead of going through the aggregate's transaction and
// version check.
func TestServicesWriteGamesThroughAggregate(t *testing.T) {
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	servicesDir := filepath.Join(root, "internal", "services")

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, servicesDir, func(fi os.FileInfo) bool {
		name := fi.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}, 0)
	if err != nil {
		t.Fatalf("parse services: %v", err)
	}
	pkg, ok := pkgs["services"]
	if !ok {
		t.Fatalf("services package not found in %s", servicesDir)
	}

	gameRepoFields := map[string]map[string]bool{}
	for _, f := range pkg.Files {
		collectGameRepoFields(f, gameRepoFields)
	}
	if len(gameRepoFields) == 0 {
		t.Fatalf("no service struct holds a repos.GameRepo; the guard would check nothing")
	}

	var violations []string
	for path, f := range pkg.Files {
		rel, _ := filepath.Rel(root, path)
		violations = append(violations, directGameWrites(fset, f, filepath.ToSlash(rel), gameRepoFields)...)
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		t.Fatalf("game repo writes outside the aggregate:\n- %s", strings.Join(violations, "\n- "))
	}
}

// collectGameRepoFields records, per struct, the fields typed repos.GameRepo.
func collectGameRepoFields(file *ast.File, out map[string]map[string]bool) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok || pkgIdent.Name != "repos" || sel.Sel.Name != "GameRepo" {
					continue
				}
				for _, name := range field.Names {
					if out[ts.Name.Name] == nil {
						out[ts.Name.Name] = map[string]bool{}
					}
					out[ts.Name.Name][name.Name] = true
				}
			}
		}
	}
}

func directGameWrites(fset *token.FileSet, file *ast.File, rel string, fields map[string]map[string]bool) []string {
	var out []string
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		repoFields := fields[recvType]
		if recvName == "" || len(repoFields) == 0 {
			continue
		}
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			method, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || !gameRepoWriteMethods[method.Sel.Name] {
				return true
			}
			field, ok := method.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			recv, ok := field.X.(*ast.Ident)
			if !ok || recv.Name != recvName || !repoFields[field.Sel.Name] {
				return true
			}
			pos := fset.Position(call.Pos())
			out = append(out, fmt.Sprintf("%s:%d %s.%s calls %s.%s", rel, pos.Line, recvType, fd.Name.Name, field.Sel.Name, method.Sel.Name))
			return true
		})
	}
	return out
}

func recvInfo(field *ast.Field) (name, typ string) {
	if len(field.Names) > 0 {
		name = field.Names[0].Name
	}
	expr := field.Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		typ = ident.Name
	}
	return name, typ
}

package transpiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func (t *Transpiler) transpileExpression(expr ast.Expression) (string, error) {
	switch expr := expr.(type) {
	case *ast.IntegerLiteral:
		if expr.Suffix != "" {
			return fmt.Sprintf("%d%s", expr.Value, expr.Suffix), nil
		}
		return strconv.FormatInt(expr.Value, 10), nil
	case *ast.FloatLiteral:
		s := strconv.FormatFloat(expr.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, nil
	case *ast.BooleanLiteral:
		return strconv.FormatBool(expr.Value), nil
	case *ast.StringLiteral:
		return strconv.Quote(expr.Value), nil
	case *ast.CharLiteral:
		return strconv.QuoteRune(expr.Value), nil
	case *ast.ByteLiteral:
		return "b" + strconv.QuoteRune(rune(expr.Value)), nil
	case *ast.UnitLiteral:
		return "()", nil
	case *ast.NullLiteral:
		return "None", nil
	case *ast.FStringLiteral:
		return t.transpileFString(expr)
	case *ast.Identifier:
		return expr.Value, nil
	case *ast.QualifiedName:
		return strings.Join(expr.Parts, "::"), nil
	case *ast.GroupedExpression:
		inner, err := t.transpileExpression(expr.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil

	case *ast.PrefixExpression:
		return t.transpilePrefix(expr)
	case *ast.InfixExpression:
		return t.transpileInfix(expr)
	case *ast.AssignExpression:
		return t.transpileAssign(expr)
	case *ast.CompoundAssignExpression:
		return t.transpileCompoundAssign(expr)
	case *ast.IncDecExpression:
		return t.transpileIncDec(expr)
	case *ast.PostfixExpression:
		left, err := t.transpileExpression(expr.Left)
		if err != nil {
			return "", err
		}
		return left + expr.Operator, nil

	case *ast.IfExpression:
		return t.transpileIf(expr)
	case *ast.TernaryExpression:
		return t.transpileTernary(expr)
	case *ast.MatchExpression:
		return t.transpileMatch(expr)
	case *ast.ForExpression:
		return t.transpileFor(expr)
	case *ast.WhileExpression:
		return t.transpileWhile(expr)
	case *ast.LoopExpression:
		body, err := t.transpileBlock(expr.Body)
		if err != nil {
			return "", err
		}
		return "loop " + body, nil
	case *ast.BlockStatement:
		return t.transpileBlock(expr)

	case *ast.ThrowExpression:
		value, err := t.transpileExpression(expr.Value)
		if err != nil {
			return "", err
		}
		return `panic!("{:?}", ` + value + `)`, nil
	case *ast.TryCatchExpression:
		return t.transpileTryCatch(expr)

	case *ast.FunctionLiteral:
		return t.transpileFunction(expr)
	case *ast.LambdaLiteral:
		return t.transpileLambda(expr)
	case *ast.CallExpression:
		return t.transpileCall(expr)
	case *ast.MethodCallExpression:
		return t.transpileMethodCall(expr)
	case *ast.FieldAccessExpression:
		return t.transpileFieldAccess(expr)
	case *ast.IndexExpression:
		return t.transpileIndex(expr)
	case *ast.PipelineExpression:
		return t.transpilePipeline(expr)

	case *ast.ArrayLiteral:
		return t.transpileArray(expr)
	case *ast.ArrayInitExpression:
		return t.transpileArrayInit(expr)
	case *ast.TupleLiteral:
		return t.transpileTuple(expr)
	case *ast.RangeExpression:
		return t.transpileRange(expr)
	case *ast.StructLiteral:
		return t.transpileStructLiteral(expr)
	case *ast.ObjectLiteral:
		return t.transpileObjectLiteral(expr)
	case *ast.DataFrameLiteral:
		return t.transpileDataFrame(expr)

	case *ast.AwaitExpression:
		value, err := t.transpileExpression(expr.Value)
		if err != nil {
			return "", err
		}
		return value + ".await", nil
	case *ast.AsyncBlockExpression:
		// no futures runtime: the body runs synchronously
		return t.transpileBlock(expr.Body)
	case *ast.SpawnExpression:
		return t.transpileSpawn(expr)
	case *ast.SendExpression:
		return t.transpileSend(expr)
	case *ast.AskExpression:
		return t.transpileAsk(expr)

	case *ast.LetStatement:
		return t.transpileLet(expr)
	case *ast.ReturnStatement:
		return t.transpileStatement(expr)
	case *ast.BreakStatement:
		return t.transpileStatement(expr)
	case *ast.ContinueStatement:
		return "continue", nil
	case *ast.MacroInvocation:
		return t.transpileMacroInvocation(expr)
	}

	return "", rerrors.New(rerrors.ErrCannotTranspile, map[string]any{
		"Kind": fmt.Sprintf("%T", expr),
	})
}

// transpileFString lowers f"a {x} b" to format!("a {} b", x)
func (t *Transpiler) transpileFString(expr *ast.FStringLiteral) (string, error) {
	var format strings.Builder
	var args []string
	for _, part := range expr.Parts {
		if !part.IsExpr {
			format.WriteString(strings.ReplaceAll(strings.ReplaceAll(part.Text, "{", "{{"), "}", "}}"))
			continue
		}
		code, err := t.transpileExpression(part.Expr)
		if err != nil {
			return "", err
		}
		format.WriteString("{}")
		args = append(args, code)
	}

	quoted := strconv.Quote(format.String())
	if len(args) == 0 {
		return quoted + ".to_string()", nil
	}
	return "format!(" + quoted + ", " + strings.Join(args, ", ") + ")", nil
}

func (t *Transpiler) transpilePrefix(expr *ast.PrefixExpression) (string, error) {
	right, err := t.transpileExpression(expr.Right)
	if err != nil {
		return "", err
	}
	switch expr.Operator {
	case "~":
		// Rust reuses ! for bitwise not on integers
		return "!" + right, nil
	case "&":
		return "&" + right, nil
	default:
		return expr.Operator + right, nil
	}
}

func (t *Transpiler) transpileInfix(expr *ast.InfixExpression) (string, error) {
	left, err := t.transpileExpression(expr.Left)
	if err != nil {
		return "", err
	}
	right, err := t.transpileExpression(expr.Right)
	if err != nil {
		return "", err
	}

	if expr.Operator == "**" {
		return "(" + left + ").pow(" + right + " as u32)", nil
	}

	// comparisons against .len() need the integer operand cast to usize
	if isComparison(expr.Operator) {
		if isLenCall(expr.Left) && !isLenCall(expr.Right) {
			right = "(" + right + " as usize)"
		} else if isLenCall(expr.Right) && !isLenCall(expr.Left) {
			left = "(" + left + " as usize)"
		}
	}

	return left + " " + expr.Operator + " " + right, nil
}

func isComparison(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=":
		return true
	}
	return false
}

func isLenCall(expr ast.Expression) bool {
	call, ok := expr.(*ast.MethodCallExpression)
	return ok && (call.Method == "len" || call.Method == "length") && len(call.Arguments) == 0
}

func (t *Transpiler) transpileAssign(expr *ast.AssignExpression) (string, error) {
	target, err := t.transpileExpression(expr.Target)
	if err != nil {
		return "", err
	}
	value, err := t.transpileExpression(expr.Value)
	if err != nil {
		return "", err
	}
	return target + " = " + value, nil
}

func (t *Transpiler) transpileCompoundAssign(expr *ast.CompoundAssignExpression) (string, error) {
	target, err := t.transpileExpression(expr.Target)
	if err != nil {
		return "", err
	}
	value, err := t.transpileExpression(expr.Value)
	if err != nil {
		return "", err
	}
	return target + " " + expr.Operator + "= " + value, nil
}

// Rust has no ++/--; lower to compound assignment
func (t *Transpiler) transpileIncDec(expr *ast.IncDecExpression) (string, error) {
	target, err := t.transpileExpression(expr.Target)
	if err != nil {
		return "", err
	}
	op := "+= 1"
	if expr.Operator == "--" {
		op = "-= 1"
	}
	return "{ " + target + " " + op + "; " + target + " }", nil
}

func (t *Transpiler) transpileIf(expr *ast.IfExpression) (string, error) {
	condition, err := t.transpileExpression(expr.Condition)
	if err != nil {
		return "", err
	}
	consequence, err := t.transpileBlock(expr.Consequence)
	if err != nil {
		return "", err
	}

	out := "if " + condition + " " + consequence
	if expr.Alternative != nil {
		alternative, err := t.transpileExpression(expr.Alternative)
		if err != nil {
			return "", err
		}
		out += " else " + alternative
	}
	return out, nil
}

func (t *Transpiler) transpileTernary(expr *ast.TernaryExpression) (string, error) {
	condition, err := t.transpileExpression(expr.Condition)
	if err != nil {
		return "", err
	}
	then, err := t.transpileExpression(expr.Then)
	if err != nil {
		return "", err
	}
	alt, err := t.transpileExpression(expr.Else)
	if err != nil {
		return "", err
	}
	return "if " + condition + " { " + then + " } else { " + alt + " }", nil
}

func (t *Transpiler) transpileMatch(expr *ast.MatchExpression) (string, error) {
	subject, err := t.transpileExpression(expr.Expr)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("match " + subject + " {\n")
	for _, arm := range expr.Arms {
		out.WriteString("    " + t.transpilePattern(arm.Pattern))
		if arm.Guard != nil {
			guard, err := t.transpileExpression(arm.Guard)
			if err != nil {
				return "", err
			}
			out.WriteString(" if " + guard)
		}
		body, err := t.transpileExpression(arm.Body)
		if err != nil {
			return "", err
		}
		out.WriteString(" => " + body + ",\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) transpileFor(expr *ast.ForExpression) (string, error) {
	iter, err := t.transpileExpression(expr.Iter)
	if err != nil {
		return "", err
	}
	body, err := t.transpileBlock(expr.Body)
	if err != nil {
		return "", err
	}
	return "for " + t.transpilePattern(expr.Pattern) + " in " + iter + " " + body, nil
}

func (t *Transpiler) transpileWhile(expr *ast.WhileExpression) (string, error) {
	condition, err := t.transpileExpression(expr.Condition)
	if err != nil {
		return "", err
	}
	body, err := t.transpileBlock(expr.Body)
	if err != nil {
		return "", err
	}
	return "while " + condition + " " + body, nil
}

// transpileTryCatch lowers try/catch to a match on a closure returning
// Result, with catch arms on the Err side and finally run on both paths
func (t *Transpiler) transpileTryCatch(expr *ast.TryCatchExpression) (string, error) {
	try, err := t.transpileBlock(expr.Try)
	if err != nil {
		return "", err
	}

	errName := "e"
	if len(expr.Catches) > 0 && expr.Catches[0].Param != "" {
		errName = expr.Catches[0].Param
	}
	var catch string
	if len(expr.Catches) > 0 {
		catch, err = t.transpileBlock(expr.Catches[0].Body)
		if err != nil {
			return "", err
		}
	} else {
		catch = "{ }"
	}

	out := "match std::panic::catch_unwind(|| " + try + ") {\n" +
		"    Ok(__v) => __v,\n" +
		"    Err(" + errName + ") => " + catch + ",\n" +
		"}"
	if expr.Finally != nil {
		finally, err := t.transpileBlock(expr.Finally)
		if err != nil {
			return "", err
		}
		out = "{ let __r = " + out + "; " + finally + "; __r }"
	}
	return out, nil
}

func (t *Transpiler) transpileLambda(expr *ast.LambdaLiteral) (string, error) {
	params := make([]string, len(expr.Params))
	for idx, param := range expr.Params {
		params[idx] = param.Name
		if param.Type != "" {
			params[idx] += ": " + rustType(param.Type, true)
		}
	}

	body, err := t.transpileExpression(expr.Body)
	if err != nil {
		return "", err
	}

	if expr.IsAsync {
		return "|" + strings.Join(params, ", ") + "| async move { " + body + " }", nil
	}
	return "|" + strings.Join(params, ", ") + "| " + body, nil
}

func (t *Transpiler) transpileCall(expr *ast.CallExpression) (string, error) {
	callee, err := t.transpileExpression(expr.Function)
	if err != nil {
		return "", err
	}
	args, err := t.transpileExpressions(expr.Arguments)
	if err != nil {
		return "", err
	}
	return callee + "(" + strings.Join(args, ", ") + ")", nil
}

func (t *Transpiler) transpileExpressions(exprs []ast.Expression) ([]string, error) {
	out := make([]string, len(exprs))
	for idx, expr := range exprs {
		code, err := t.transpileExpression(expr)
		if err != nil {
			return nil, err
		}
		out[idx] = code
	}
	return out, nil
}

func (t *Transpiler) transpileFieldAccess(expr *ast.FieldAccessExpression) (string, error) {
	object, err := t.transpileExpression(expr.Object)
	if err != nil {
		return "", err
	}
	if expr.Optional {
		return object + ".and_then(|__v| Some(__v." + expr.Field + "))", nil
	}
	return object + "." + expr.Field, nil
}

func (t *Transpiler) transpileIndex(expr *ast.IndexExpression) (string, error) {
	left, err := t.transpileExpression(expr.Left)
	if err != nil {
		return "", err
	}
	index, err := t.transpileExpression(expr.Index)
	if err != nil {
		return "", err
	}
	if _, ok := expr.Index.(*ast.RangeExpression); ok {
		return left + "[" + index + "].to_vec()", nil
	}
	return left + "[" + index + " as usize]", nil
}

func (t *Transpiler) transpilePipeline(expr *ast.PipelineExpression) (string, error) {
	left, err := t.transpileExpression(expr.Left)
	if err != nil {
		return "", err
	}

	if call, ok := expr.Right.(*ast.CallExpression); ok {
		callee, err := t.transpileExpression(call.Function)
		if err != nil {
			return "", err
		}
		args, err := t.transpileExpressions(call.Arguments)
		if err != nil {
			return "", err
		}
		return callee + "(" + strings.Join(append([]string{left}, args...), ", ") + ")", nil
	}

	right, err := t.transpileExpression(expr.Right)
	if err != nil {
		return "", err
	}
	return right + "(" + left + ")", nil
}

func (t *Transpiler) transpileArray(expr *ast.ArrayLiteral) (string, error) {
	elements, err := t.transpileExpressions(expr.Elements)
	if err != nil {
		return "", err
	}
	return "vec![" + strings.Join(elements, ", ") + "]", nil
}

func (t *Transpiler) transpileArrayInit(expr *ast.ArrayInitExpression) (string, error) {
	value, err := t.transpileExpression(expr.Value)
	if err != nil {
		return "", err
	}
	size, err := t.transpileExpression(expr.Size)
	if err != nil {
		return "", err
	}
	return "vec![" + value + "; " + size + " as usize]", nil
}

func (t *Transpiler) transpileTuple(expr *ast.TupleLiteral) (string, error) {
	elements, err := t.transpileExpressions(expr.Elements)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(elements, ", ") + ")", nil
}

func (t *Transpiler) transpileRange(expr *ast.RangeExpression) (string, error) {
	start, err := t.transpileExpression(expr.Start)
	if err != nil {
		return "", err
	}
	end, err := t.transpileExpression(expr.End)
	if err != nil {
		return "", err
	}
	if expr.Inclusive {
		return start + "..=" + end, nil
	}
	return start + ".." + end, nil
}

func (t *Transpiler) transpileStructLiteral(expr *ast.StructLiteral) (string, error) {
	var fields []string
	for _, field := range expr.Fields {
		value, err := t.transpileExpression(field.Value)
		if err != nil {
			return "", err
		}
		if value == field.Name {
			fields = append(fields, field.Name)
		} else {
			fields = append(fields, field.Name+": "+value)
		}
	}
	if expr.Base != nil {
		base, err := t.transpileExpression(expr.Base)
		if err != nil {
			return "", err
		}
		fields = append(fields, ".."+base)
	}
	return expr.Name + " { " + strings.Join(fields, ", ") + " }", nil
}

// anonymous objects become HashMap<String, _> built in place
func (t *Transpiler) transpileObjectLiteral(expr *ast.ObjectLiteral) (string, error) {
	var inserts []string
	for _, pair := range expr.Pairs {
		value, err := t.transpileExpression(pair.Value)
		if err != nil {
			return "", err
		}
		inserts = append(inserts, "__m.insert("+strconv.Quote(pair.Key)+".to_string(), "+value+");")
	}
	return "{ let mut __m = std::collections::HashMap::new(); " + strings.Join(inserts, " ") + " __m }", nil
}

func (t *Transpiler) transpileDataFrame(expr *ast.DataFrameLiteral) (string, error) {
	var cols []string
	for _, col := range expr.Columns {
		values, err := t.transpileExpressions(col.Values)
		if err != nil {
			return "", err
		}
		cols = append(cols, strconv.Quote(col.Name)+" => ["+strings.Join(values, ", ")+"]")
	}
	return "df![" + strings.Join(cols, ", ") + "].unwrap()", nil
}

// spawn of a struct construction wraps it for shared thread-safe access;
// anything else passes through
func (t *Transpiler) transpileSpawn(expr *ast.SpawnExpression) (string, error) {
	value, err := t.transpileExpression(expr.Value)
	if err != nil {
		return "", err
	}
	if _, ok := expr.Value.(*ast.StructLiteral); ok {
		return "std::sync::Arc::new(std::sync::Mutex::new(" + value + "))", nil
	}
	if call, ok := expr.Value.(*ast.CallExpression); ok {
		if _, isIdent := call.Function.(*ast.Identifier); isIdent {
			return "std::sync::Arc::new(std::sync::Mutex::new(" + value + "))", nil
		}
	}
	return value, nil
}

func (t *Transpiler) transpileSend(expr *ast.SendExpression) (string, error) {
	code, err := t.transpileMessageCall(expr.Actor, expr.Message)
	if err != nil {
		return "", err
	}
	return code + ";", nil
}

func (t *Transpiler) transpileAsk(expr *ast.AskExpression) (string, error) {
	return t.transpileMessageCall(expr.Actor, expr.Message)
}

// actor <- Msg(args) lowers to actor.lock().unwrap().msg(args)
func (t *Transpiler) transpileMessageCall(actorExpr, messageExpr ast.Expression) (string, error) {
	actor, err := t.transpileExpression(actorExpr)
	if err != nil {
		return "", err
	}

	switch message := messageExpr.(type) {
	case *ast.Identifier:
		return actor + ".lock().unwrap()." + snakeCase(message.Value) + "()", nil
	case *ast.CallExpression:
		name, ok := message.Function.(*ast.Identifier)
		if !ok {
			break
		}
		args, err := t.transpileExpressions(message.Arguments)
		if err != nil {
			return "", err
		}
		return actor + ".lock().unwrap()." + snakeCase(name.Value) + "(" + strings.Join(args, ", ") + ")", nil
	}
	return "", rerrors.New(rerrors.ErrCannotTranspile, map[string]any{
		"Kind": "actor message " + messageExpr.String(),
	})
}

func (t *Transpiler) transpilePattern(pattern ast.Pattern) string {
	switch pattern := pattern.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.IdentifierPattern:
		return pattern.Name
	case *ast.LiteralPattern:
		code, err := t.transpileExpression(pattern.Value)
		if err != nil {
			return pattern.Value.String()
		}
		return code
	case *ast.RangePattern:
		op := ".."
		if pattern.Inclusive {
			op = "..="
		}
		return pattern.Start.String() + op + pattern.End.String()
	case *ast.TuplePattern:
		parts := make([]string, len(pattern.Elements))
		for idx, sub := range pattern.Elements {
			parts[idx] = t.transpilePattern(sub)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ListPattern:
		parts := make([]string, len(pattern.Elements))
		for idx, sub := range pattern.Elements {
			parts[idx] = t.transpilePattern(sub)
		}
		if pattern.HasRest {
			rest := ".."
			if pattern.Rest != "" && pattern.Rest != "_" {
				rest = pattern.Rest + " @ .."
			}
			parts = append(parts, rest)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.OrPattern:
		parts := make([]string, len(pattern.Alternatives))
		for idx, sub := range pattern.Alternatives {
			parts[idx] = t.transpilePattern(sub)
		}
		return strings.Join(parts, " | ")
	case *ast.SomePattern:
		return "Some(" + t.transpilePattern(pattern.Inner) + ")"
	case *ast.NonePattern:
		return "None"
	case *ast.QualifiedNamePattern:
		return strings.Join(pattern.Parts, "::")
	case *ast.TupleVariantPattern:
		parts := make([]string, len(pattern.Elements))
		for idx, sub := range pattern.Elements {
			parts[idx] = t.transpilePattern(sub)
		}
		return strings.Join(pattern.Parts, "::") + "(" + strings.Join(parts, ", ") + ")"
	case *ast.StructPattern:
		var fields []string
		for _, field := range pattern.Fields {
			if field.Pattern == nil {
				fields = append(fields, field.Name)
			} else {
				fields = append(fields, field.Name+": "+t.transpilePattern(field.Pattern))
			}
		}
		if pattern.HasRest {
			fields = append(fields, "..")
		}
		return pattern.Name + " { " + strings.Join(fields, ", ") + " }"
	}
	return pattern.String()
}

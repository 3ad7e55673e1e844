package diag

// Code identifies a diagnostic kind. Codes are grouped by category below
// rather than numbered by phase, so a grep for a category name finds
// every related code together.
type Code uint16

const (
	CodeUnknown Code = iota

	// -- Lex --

	CodeUnexpectedCharacter
	CodeUnterminatedMultiLineComment
	CodeUnterminatedStringLiteral
	CodeUnknownNumericLiteralTypeSuffix
	CodeDecimalPointInNonFloatNumericLiteral

	// -- Parse --

	CodeUnexpectedToken
	CodeMissingToken
	CodeEmptyTemplateParams
	CodeEmptyTemplateArgs
	CodeEmptyModifiers
	CodeExternInstanceFunction
	CodeUnknownModifier
	CodeForbiddenModifier
	CodeMissingSelfModifierAfterStrongPtr
	CodeUnconstrainedTypeParam
	CodeConstrainedNonGenericSymbol

	// -- Symbol --

	CodeSymbolRedefinition
	CodeMismatchedAccessModifier
	CodeUndefinedSymbolRef
	CodeAmbiguousSymbolRef
	CodeInaccessibleSymbol
	CodeIncorrectSymbolCategory
	CodeIncorrectSymbolType
	CodeNonSelfScopedSymbolScopeAccess

	// -- Template --

	CodeUnableToDeduceTemplateArgs
	CodeUnableToDeduceTemplateArg
	CodeTooManyTemplateArgs
	CodeTemplateArgDeductionConflict
	CodeUndefinedTemplateInstanceRef

	// -- Type --

	CodeTypeMismatch
	CodeInvalidImplicitConversion
	CodeInvalidExplicitConversion
	CodeExpectedLValue
	CodeExpectedRValue
	CodeExpectedSizedType

	// -- Flow --

	CodeNotAllControlPathsReturn
)

var codeNames = map[Code]string{
	CodeUnknown: "Unknown",

	CodeUnexpectedCharacter: "UnexpectedCharacter",
	CodeUnterminatedMultiLineComment: "UnterminatedMultiLineComment",
	CodeUnterminatedStringLiteral: "UnterminatedStringLiteral",
	CodeUnknownNumericLiteralTypeSuffix: "UnknownNumericLiteralTypeSuffix",
	CodeDecimalPointInNonFloatNumericLiteral: "DecimalPointInNonFloatNumericLiteral",

	CodeUnexpectedToken: "UnexpectedToken",
	CodeMissingToken: "MissingToken",
	CodeEmptyTemplateParams: "EmptyTemplateParams",
	CodeEmptyTemplateArgs: "EmptyTemplateArgs",
	CodeEmptyModifiers: "EmptyModifiers",
	CodeExternInstanceFunction: "ExternInstanceFunction",
	CodeUnknownModifier: "UnknownModifier",
	CodeForbiddenModifier: "ForbiddenModifier",
	CodeMissingSelfModifierAfterStrongPtr: "MissingSelfModifierAfterStrongPtr",
	CodeUnconstrainedTypeParam: "UnconstrainedTypeParam",
	CodeConstrainedNonGenericSymbol: "ConstrainedNonGenericSymbol",

	CodeSymbolRedefinition: "SymbolRedefinition",
	CodeMismatchedAccessModifier: "MismatchedAccessModifier",
	CodeUndefinedSymbolRef: "UndefinedSymbolRef",
	CodeAmbiguousSymbolRef: "AmbiguousSymbolRef",
	CodeInaccessibleSymbol: "InaccessibleSymbol",
	CodeIncorrectSymbolCategory: "IncorrectSymbolCategory",
	CodeIncorrectSymbolType: "IncorrectSymbolType",
	CodeNonSelfScopedSymbolScopeAccess: "NonSelfScopedSymbolScopeAccess",

	CodeUnableToDeduceTemplateArgs: "UnableToDeduceTemplateArgs",
	CodeUnableToDeduceTemplateArg: "UnableToDeduceTemplateArg",
	CodeTooManyTemplateArgs: "TooManyTemplateArgs",
	CodeTemplateArgDeductionConflict: "TemplateArgDeductionConflict",
	CodeUndefinedTemplateInstanceRef: "UndefinedTemplateInstanceRef",

	CodeTypeMismatch: "TypeMismatch",
	CodeInvalidImplicitConversion: "InvalidImplicitConversion",
	CodeInvalidExplicitConversion: "InvalidExplicitConversion",
	CodeExpectedLValue: "ExpectedLValue",
	CodeExpectedRValue: "ExpectedRValue",
	CodeExpectedSizedType: "ExpectedSizedType",

	CodeNotAllControlPathsReturn: "NotAllControlPathsReturn",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Unknown"
}

package diag

// Structural and parser-level codes.
const (
	MetadataFileMissing    Code = "METADATA_FILE_MISSING"
	PipelineFileMissing    Code = "PIPELINE_FILE_MISSING"
	WikiFileMissing        Code = "WIKI_FILE_MISSING"
	IconFileMissing        Code = "ICON_FILE_MISSING"
	MetadataFileUnreadable Code = "METADATA_FILE_UNREADABLE"
	PipelineFileUnreadable Code = "PIPELINE_FILE_UNREADABLE"
	WikiFileUnreadable     Code = "WIKI_FILE_UNREADABLE"
	IconFileUnreadable     Code = "ICON_FILE_UNREADABLE"
	SyntaxError            Code = "SYNTAX_ERROR"
)

// Model builder codes.
const (
	MetadataFieldMissing   Code = "METADATA_FIELD_MISSING"
	MetadataFieldType      Code = "METADATA_FIELD_TYPE"
	UnknownMetadataField   Code = "UNKNOWN_METADATA_FIELD"
	MetadataStructure      Code = "METADATA_STRUCTURE"
	MissingVersion         Code = "MISSING_VERSION"
	PipelineStructure      Code = "PIPELINE_STRUCTURE"
	PipelineSectionMissing Code = "PIPELINE_SECTION_MISSING"
	StagesMissing          Code = "STAGES_MISSING"
	ExpressionMalformed    Code = "EXPRESSION_MALFORMED"
	WikiTableColumn        Code = "WIKI_TABLE_COLUMN"
)

// Intra-file rule codes.
const (
	NameFormat              Code = "NAME_FORMAT"
	DescriptionPunctuation  Code = "DESCRIPTION_PUNCTUATION"
	VersionFormat           Code = "VERSION_FORMAT"
	StageNameMissing        Code = "STAGE_NAME_MISSING"
	StepNameMissing         Code = "STEP_NAME_MISSING"
	DuplicateStage          Code = "DUPLICATE_STAGE"
	DuplicateStep           Code = "DUPLICATE_STEP"
	ImageTag                Code = "IMAGE_TAG"
	HardcodedSecret         Code = "HARDCODED_SECRET"
	SecretLeak              Code = "SECRET_LEAK"
	UndefinedInput          Code = "UNDEFINED_INPUT"
	UnresolvedStepRef       Code = "UNRESOLVED_STEP_REF"
	PlatformIncomplete      Code = "PLATFORM_INCOMPLETE"
	InputsMissing           Code = "INPUTS_MISSING"
	InputType               Code = "INPUT_TYPE"
	InputRequiredAmbiguous  Code = "INPUT_REQUIRED_AMBIGUOUS"
	InputDescriptionMissing Code = "INPUT_DESCRIPTION_MISSING"
	WikiTitleMissing        Code = "WIKI_TITLE_MISSING"
	WikiSectionMissing      Code = "WIKI_SECTION_MISSING"
	CodeBlockLanguage       Code = "CODE_BLOCK_LANGUAGE"
	IconNotSVG              Code = "ICON_NOT_SVG"
)

// Cross-file codes.
const (
	NameDirectoryMismatch       Code = "NAME_DIRECTORY_MISMATCH"
	NameDirectorySkipped        Code = "NAME_DIRECTORY_SKIPPED"
	WikiTitleMismatch           Code = "WIKI_TITLE_MISMATCH"
	InputsTableMissingInput     Code = "INPUTS_TABLE_MISSING_INPUT"
	InputsTableStale            Code = "INPUTS_TABLE_STALE"
	InputsTableTypeMismatch     Code = "INPUTS_TABLE_TYPE_MISMATCH"
	InputsTableRequiredMismatch Code = "INPUTS_TABLE_REQUIRED_MISMATCH"
	InputsTableDefaultMismatch  Code = "INPUTS_TABLE_DEFAULT_MISMATCH"
)

// Unregistered lists the codes emitted by the loader, parsers and model
// builders rather than by registered rules. Overrides may still target them.
var Unregistered = []Code{
	MetadataFileMissing, PipelineFileMissing, WikiFileMissing, IconFileMissing,
	MetadataFileUnreadable, PipelineFileUnreadable, WikiFileUnreadable, IconFileUnreadable,
	SyntaxError,
	MetadataFieldMissing, MetadataFieldType, UnknownMetadataField, MetadataStructure,
	MissingVersion, PipelineStructure, PipelineSectionMissing, StagesMissing,
	ExpressionMalformed, WikiTableColumn,
}

// ProsePrefix prefixes every code emitted by the text-quality checker.
const ProsePrefix = "PROSE_"

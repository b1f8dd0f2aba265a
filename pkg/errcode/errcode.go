package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBNotReadyError
	DBTableExistsCheckError
	DBBeginTxError
	DBCommitTxError

	// Schema errors
	SchemaCreateError
	SchemaCheckError

	// Bootstrap errors
	BootstrapLockError
	BootstrapCancelledError

	// Corpus errors
	CorpusUpsertError
	CorpusCancelledError

	// Sequence errors
	SequenceMaxIDError
	SequenceSetValError

	// Document errors
	DocumentNotFoundError
	DocumentNotUTF8Error
	DocumentFilenameError
	DocumentIDConflictError
	DocumentQueryError

	// Analysis errors
	AnalysisNotFoundError
	AnalysisStoreError
	AnalysisQueryError
	AnalyzerInitError

	// HTTP errors
	WebBadRequestError
	WebReadUploadError
)

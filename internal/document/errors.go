// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import "errors"

var (
	// ErrCorrupt indicates the PDF container could not be opened or parsed
	ErrCorrupt = errors.New("corrupt or unreadable PDF")

	// ErrEncrypted indicates a password-protected PDF, which is unsupported
	ErrEncrypted = errors.New("password-protected PDF not supported")

	// ErrTooLarge indicates the input exceeds the configured size limit
	ErrTooLarge = errors.New("PDF exceeds maximum file size")
)

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type PermissionError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyDelivered             = InvalidError("shipment already delivered")
	ErrAlreadyInitialised           = ExistsError("already initialised")
	ErrAssetNotFound                = NotFoundError("asset not found")
	ErrCertificateFileAlreadyExists = ExistsError("certificate file already exists")
	ErrCompanyAlreadyExists         = ExistsError("company already exists")
	ErrCompanyNotFound              = NotFoundError("company not found")
	ErrDatabaseIsNotSet             = ProcessError("database is not set")
	ErrDrugAlreadyExists            = ExistsError("drug already exists")
	ErrDrugNotFound                 = NotFoundError("drug not found")
	ErrDuplicateAsset               = InvalidError("duplicate asset in shipment")
	ErrHierarchyViolation           = InvalidError("purchase must be made from the tier directly above the buyer")
	ErrIncompatibleDatabase         = ProcessError("incompatible database version")
	ErrInvalidCount                 = InvalidError("invalid count")
	ErrInvalidDates                 = InvalidError("manufacturing date must be before expiry date")
	ErrInvalidIpAddress             = InvalidError("invalid IP address")
	ErrInvalidKey                   = InvalidError("invalid composite key")
	ErrInvalidLoggerChannel         = ProcessError("invalid logger channel")
	ErrInvalidPortNumber            = InvalidError("invalid port number")
	ErrInvalidPrivateKeyFile        = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile         = InvalidError("invalid public key file")
	ErrInvalidQuantity              = InvalidError("quantity must be a positive integer")
	ErrInvalidRole                  = InvalidError("invalid organisation role")
	ErrKeyFileAlreadyExists         = ExistsError("key file already exists")
	ErrKeyNotFound                  = NotFoundError("key not found")
	ErrMissingParameters            = InvalidError("missing parameters")
	ErrNotInitialised               = NotFoundError("not initialised")
	ErrNotTransporter               = InvalidError("company is not a transporter")
	ErrOwnerMismatch                = PermissionError("drug is not owned by the caller")
	ErrPermissionDenied             = PermissionError("permission denied")
	ErrPurchaseOrderAlreadyExists   = ExistsError("purchase order already exists")
	ErrPurchaseOrderNotFound        = NotFoundError("purchase order not found")
	ErrQuantityMismatch             = InvalidError("asset count does not match ordered quantity")
	ErrRateLimiting                 = InvalidError("rate limiting")
	ErrShipmentAlreadyExists        = ExistsError("shipment already exists")
	ErrShipmentNotFound             = NotFoundError("shipment not found")
	ErrTransactionAborted           = ProcessError("transaction already finished")
	ErrUnknownIdentity              = PermissionError("unknown identity")
	ErrUnknownTransaction           = InvalidError("unknown transaction function")
	ErrVersionConflict              = ProcessError("state changed since it was read")
	ErrWrongArgumentCount           = InvalidError("wrong number of arguments")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string     { return string(e) }
func (e InvalidError) Error() string    { return string(e) }
func (e NotFoundError) Error() string   { return string(e) }
func (e PermissionError) Error() string { return string(e) }
func (e ProcessError) Error() string    { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool     { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool    { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool   { _, ok := e.(NotFoundError); return ok }
func IsErrPermission(e error) bool { _, ok := e.(PermissionError); return ok }
func IsErrProcess(e error) bool    { _, ok := e.(ProcessError); return ok }

// error kinds reported to clients
const (
	KindAlreadyExists      = "AlreadyExists"
	KindAssetNotFound      = "AssetNotFound"
	KindHierarchyViolation = "HierarchyViolation"
	KindInternal           = "Internal"
	KindInvalidArguments   = "InvalidArguments"
	KindInvalidDates       = "InvalidDates"
	KindInvalidQuantity    = "InvalidQuantity"
	KindInvalidRole        = "InvalidRole"
	KindInvalidTransition  = "InvalidTransition"
	KindNotFound           = "NotFound"
	KindOwnerMismatch      = "OwnerMismatch"
	KindPermissionDenied   = "PermissionDenied"
	KindQuantityMismatch   = "QuantityMismatch"
	KindVersionConflict    = "VersionConflict"
)

// Kind - classify an error for a transaction result, "" for nil
func Kind(err error) string {
	if nil == err {
		return ""
	}
	switch err {
	case ErrAlreadyDelivered:
		return KindInvalidTransition
	case ErrAssetNotFound:
		return KindAssetNotFound
	case ErrDuplicateAsset, ErrQuantityMismatch:
		return KindQuantityMismatch
	case ErrHierarchyViolation:
		return KindHierarchyViolation
	case ErrInvalidDates:
		return KindInvalidDates
	case ErrInvalidQuantity:
		return KindInvalidQuantity
	case ErrInvalidRole, ErrNotTransporter:
		return KindInvalidRole
	case ErrOwnerMismatch:
		return KindOwnerMismatch
	case ErrVersionConflict:
		return KindVersionConflict
	}

	switch {
	case IsErrExists(err):
		return KindAlreadyExists
	case IsErrNotFound(err):
		return KindNotFound
	case IsErrPermission(err):
		return KindPermissionDenied
	case IsErrInvalid(err):
		return KindInvalidArguments
	default:
		return KindInternal
	}
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package contract - the transaction functions of the pharma ledger
//
// Every function takes positional string arguments and runs inside a
// single store transaction supplied by the host, which commits the
// writes only if the function succeeds:
//
//   registerCompany      (crn, name, location, role)
//   addDrug              (name, serialNo, mfgDate, expDate, crn, role)
//   createPO             (buyerCRN, sellerCRN, drugName, quantity)
//   createShipment       (buyerCRN, drugName, serialNo[,serialNo...], transporterCRN)
//   updateShipment       (buyerCRN, drugName, transporterCRN)
//   retailDrug           (drugName, serialNo, retailerCRN, consumerId)
//   viewDrugCurrentState (drugName, serialNo)
//   viewHistory          (drugName, serialNo)
package contract

// Package models defines the unified transaction envelope and the report
// response contract shared by the adapters, the pipeline, and the export
// formatter.
package models

import "time"

// TransactionType is the tag identifying which lifecycle event a unified
// transaction represents.
type TransactionType string

// The fourteen stored transaction tags. ActionsByUsersLabel is a display-only
// mode selector and never appears on a stored record.
const (
	TypeAddAsset       TransactionType = "Add Asset"
	TypeEditAsset      TransactionType = "Edit Asset"
	TypeDeleteAsset    TransactionType = "Delete Asset"
	TypeSoldAsset      TransactionType = "Sold Asset"
	TypeDonatedAsset   TransactionType = "Donated Asset"
	TypeScrappedAsset  TransactionType = "Scrapped Asset"
	TypeLostAsset      TransactionType = "Lost/Missing Asset"
	TypeDestroyedAsset TransactionType = "Destroyed Asset"
	TypeLeaseOut       TransactionType = "Lease Out"
	TypeLeaseReturn    TransactionType = "Lease Return"
	TypeRepairAsset    TransactionType = "Repair Asset"
	TypeMoveAsset      TransactionType = "Move Asset"
	TypeCheckoutAsset  TransactionType = "Checkout Asset"
	TypeCheckinAsset   TransactionType = "Checkin Asset"

	ActionsByUsersLabel = "Actions By Users"
)

// AllTransactionTypes fixes the canonical tag order. Summary rows are emitted
// in this order so identical requests render identical bytes.
var AllTransactionTypes = []TransactionType{
	TypeAddAsset,
	TypeEditAsset,
	TypeDeleteAsset,
	TypeSoldAsset,
	TypeDonatedAsset,
	TypeScrappedAsset,
	TypeLostAsset,
	TypeDestroyedAsset,
	TypeLeaseOut,
	TypeLeaseReturn,
	TypeRepairAsset,
	TypeMoveAsset,
	TypeCheckoutAsset,
	TypeCheckinAsset,
}

// Move type values recorded on movement rows.
const (
	MoveTypeLocation   = "Location Transfer"
	MoveTypeDepartment = "Department Transfer"
)

// UnifiedTransaction is the normalized envelope every source adapter
// produces. The common fields are always populated; the variant fields are
// present only for the tag that owns them.
type UnifiedTransaction struct {
	ID               string          `json:"id"`
	TransactionType  TransactionType `json:"transactionType"`
	AssetTagID       string          `json:"assetTagId"`
	AssetDescription string          `json:"assetDescription"`
	Category         string          `json:"category"`
	SubCategory      *string         `json:"subCategory"`
	TransactionDate  time.Time       `json:"transactionDate"`
	ActionBy         *string         `json:"actionBy"`
	Details          *string         `json:"details"`
	Location         string          `json:"location"`
	Site             string          `json:"site"`
	Department       *string         `json:"department"`
	AssetCost        *float64        `json:"assetCost"`

	// Edit Asset
	FieldChanged *string `json:"fieldChanged,omitempty"`
	OldValue     *string `json:"oldValue,omitempty"`
	NewValue     *string `json:"newValue,omitempty"`

	// Lease Out
	Lessee         *string    `json:"lessee,omitempty"`
	LeaseStartDate *time.Time `json:"leaseStartDate,omitempty"`
	LeaseEndDate   *time.Time `json:"leaseEndDate,omitempty"`
	Conditions     *string    `json:"conditions,omitempty"`

	// Lease Return
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Condition  *string    `json:"condition,omitempty"`
	Notes      *string    `json:"notes,omitempty"`

	// Repair Asset
	Title         *string    `json:"title,omitempty"`
	MaintenanceBy *string    `json:"maintenanceBy,omitempty"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Cost          *float64   `json:"cost,omitempty"`
	DateCompleted *time.Time `json:"dateCompleted,omitempty"`

	// Move Asset
	MoveType     *string    `json:"moveType,omitempty"`
	MoveDate     *time.Time `json:"moveDate,omitempty"`
	EmployeeName *string    `json:"employeeName,omitempty"`
	Reason       *string    `json:"reason,omitempty"`
	FromLocation *string    `json:"fromLocation,omitempty"`
	ToLocation   *string    `json:"toLocation,omitempty"`

	// Checkout Asset
	CheckoutDate       *time.Time `json:"checkoutDate,omitempty"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	IsOverdue          *bool      `json:"isOverdue,omitempty"`

	// Checkin Asset
	CheckinDate *time.Time `json:"checkinDate,omitempty"`

	// Disposal (Sold / Donated / Scrapped / Lost / Destroyed)
	DisposeDate   *time.Time `json:"disposeDate,omitempty"`
	DisposeReason *string    `json:"disposeReason,omitempty"`
	DisposeValue  *float64   `json:"disposeValue,omitempty"`
}

// TypeSummary aggregates one transaction type across the full filtered set.
type TypeSummary struct {
	Type       TransactionType `json:"type"`
	Count      int             `json:"count"`
	TotalValue float64         `json:"totalValue"`
}

// Summary covers the full filtered set, not just the current page.
type Summary struct {
	TotalTransactions int           `json:"totalTransactions"`
	ByType            []TypeSummary `json:"byType"`
}

// Pagination describes the window applied after sort and filter.
type Pagination struct {
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Report is the response shape of the transaction report endpoint. The CSV
// exporter consumes exactly this shape.
type Report struct {
	Transactions []UnifiedTransaction `json:"transactions"`
	Summary      Summary              `json:"summary"`
	GeneratedAt  time.Time            `json:"generatedAt"`
	Pagination   Pagination           `json:"pagination"`
}

package models

import "time"

// MemberRef is the embedded mini view of a member inside a borrow.
type MemberRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// BookRef is the embedded mini view of a book inside a borrow.
type BookRef struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// BorrowView is the denormalized borrow returned by the API.
type BorrowView struct {
	ID        ID        `json:"id"`
	Member    MemberRef `json:"member"`
	Book      BookRef   `json:"book"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// MemberBorrowView is a borrow embedded in a member view. The member
// reference is omitted because it is the enclosing member itself.
type MemberBorrowView struct {
	ID        ID        `json:"id"`
	Book      BookRef   `json:"book"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// MemberView is the denormalized member returned by the API, with the
// member's borrows embedded.
type MemberView struct {
	ID      ID                 `json:"id"`
	Name    string             `json:"name"`
	Phone   string             `json:"phone"`
	Email   string             `json:"email"`
	Address string             `json:"address"`
	Borrows []MemberBorrowView `json:"borrows"`
}

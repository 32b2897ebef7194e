package voxelize

import "errors"

// ErrCancelled is returned by Driver.Convert and Driver.ConvertUnsigned
// when the caller's context is cancelled mid-pipeline. Every stage
// checks ctx at its loop head rather than enforcing a timeout, so a
// cancellation is observed promptly but never preempts a voxel update
// already in flight.
var ErrCancelled = errors.New("voxelize: conversion cancelled")
